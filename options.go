package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"spritesheet/rectpack"
)

// Options holds the settings of a pack run. Field tags name the keys of the
// optional TOML config file.
type Options struct {
	InputDir              string `toml:"input"`       // directory scanned for *.png
	OutputDir             string `toml:"output"`      // atlas.png and atlas.json go here
	AtlasMaxWidth         int    `toml:"max_width"`   // 0 means unlimited
	AtlasMaxHeight        int    `toml:"max_height"`  // 0 means unlimited
	IsFilesSort           bool   `toml:"sort_files"`  // natural filename order
	SpritePadding         int    `toml:"padding"`     // gap around each sprite
	IsAllowRotate         bool   `toml:"rotate"`      // allow 90 degree rotation
	IsTrimTransparent     bool   `toml:"trim"`        // trim transparent borders
	TransparencyThreshold uint   `toml:"threshold"`   // alpha at or below counts as transparent
	Mode                  string `toml:"mode"`        // bin-packing, left-right or top-bottom
	Sort                  string `toml:"sort"`        // size ordering before bin packing
	PowerOfTwo            bool   `toml:"pow_of_two"`  // round atlas extents up to powers of two
	Speculative           int    `toml:"speculative"` // concurrent growth attempts
}

func defaultOptions() Options {
	return Options{
		InputDir:          "input",
		OutputDir:         "output",
		AtlasMaxWidth:     4096,
		AtlasMaxHeight:    4096,
		IsFilesSort:       true,
		IsAllowRotate:     true,
		IsTrimTransparent: true,
		Mode:              rectpack.ModeBinPacking.String(),
		Sort:              "composite",
		Speculative:       1,
	}
}

func bindFlags(flags *pflag.FlagSet, opts *Options) {
	flags.StringVarP(&opts.InputDir, "input", "i", opts.InputDir, "input directory")
	flags.StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "output directory")
	flags.IntVar(&opts.AtlasMaxWidth, "max-width", opts.AtlasMaxWidth, "maximum atlas width (0 = unlimited)")
	flags.IntVar(&opts.AtlasMaxHeight, "max-height", opts.AtlasMaxHeight, "maximum atlas height (0 = unlimited)")
	flags.BoolVar(&opts.IsFilesSort, "sort-files", opts.IsFilesSort, "sort input files by natural name order")
	flags.IntVarP(&opts.SpritePadding, "padding", "p", opts.SpritePadding, "padding around each sprite")
	flags.BoolVar(&opts.IsAllowRotate, "rotate", opts.IsAllowRotate, "allow rotating sprites by 90 degrees")
	flags.BoolVar(&opts.IsTrimTransparent, "trim", opts.IsTrimTransparent, "trim transparent borders")
	flags.UintVar(&opts.TransparencyThreshold, "threshold", opts.TransparencyThreshold, "alpha threshold for trimming (0-255)")
	flags.StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode (bin-packing, left-right, top-bottom)")
	flags.StringVar(&opts.Sort, "sort", opts.Sort, "size order for bin packing ("+strings.Join(rectpack.SortNames(), ", ")+")")
	flags.BoolVar(&opts.PowerOfTwo, "pow-of-two", opts.PowerOfTwo, "round atlas size up to powers of two")
	flags.IntVar(&opts.Speculative, "speculative", opts.Speculative, "number of bin sizes attempted concurrently")
}

// applyConfig loads path into opts, then re-applies every flag set on the
// command line so explicit flags win over the file.
func applyConfig(cmd *cobra.Command, path string, opts *Options) error {
	if path == "" {
		return nil
	}
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// validate checks the options that the packer does not see.
func (o *Options) validate() error {
	if o.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if o.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if o.SpritePadding < 0 {
		return fmt.Errorf("padding must be >= 0 (given %d)", o.SpritePadding)
	}
	if o.AtlasMaxWidth < 0 || o.AtlasMaxHeight < 0 {
		return fmt.Errorf("maximum atlas size must be >= 0 (given %dx%d)", o.AtlasMaxWidth, o.AtlasMaxHeight)
	}
	if o.TransparencyThreshold > 255 {
		return fmt.Errorf("threshold must be within 0-255 (given %d)", o.TransparencyThreshold)
	}
	return nil
}

// packerOptions translates the CLI settings into engine options.
func (o *Options) packerOptions() (rectpack.Options, error) {
	mode, err := rectpack.ParseMode(o.Mode)
	if err != nil {
		return rectpack.Options{}, err
	}
	sortFn, err := rectpack.ResolveSort(o.Sort)
	if err != nil {
		return rectpack.Options{}, err
	}
	opts := rectpack.DefaultOptions()
	opts.Padding = float64(o.SpritePadding)
	opts.Mode = mode
	opts.AllowRotate = o.IsAllowRotate
	opts.Sort = sortFn
	opts.Speculative = o.Speculative
	return opts, nil
}
