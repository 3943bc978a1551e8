package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"spritesheet/rectpack"
)

const (
	atlasImageName = "atlas.png"
	atlasDataName  = "atlas.json"
)

func newPackCmd() *cobra.Command {
	opts := defaultOptions()
	var configPath string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack the images of a directory into atlas.png and atlas.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			return runPack(cmd, &opts)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML file with default options")
	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func runPack(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	if err := opts.validate(); err != nil {
		return err
	}
	packerOpts, err := opts.packerOptions()
	if err != nil {
		return err
	}
	packerOpts.Logger = logger

	prog := newProgress(logger)
	paths, err := findImages(opts.InputDir, opts.IsFilesSort)
	if err != nil {
		return err
	}
	logger.Debug("found images", "count", len(paths), "dir", opts.InputDir, "trim", opts.IsTrimTransparent)
	sprites, err := loadSprites(ctx, paths, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d images", len(sprites)))

	prog = newProgress(logger)
	result, err := packing(ctx, spriteSizes(sprites), packerOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d sprites in %d attempts", len(result.Rects), result.Attempts))

	width, height := atlasSize(result.Bin, opts.PowerOfTwo)
	if (opts.AtlasMaxWidth > 0 && width > opts.AtlasMaxWidth) || (opts.AtlasMaxHeight > 0 && height > opts.AtlasMaxHeight) {
		return fmt.Errorf("atlas %dx%d exceeds the maximum %dx%d", width, height, opts.AtlasMaxWidth, opts.AtlasMaxHeight)
	}

	prog = newProgress(logger)
	atlas, infos, err := createAtlasImage(ctx, result, sprites, width, height)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	imagePath := filepath.Join(opts.OutputDir, atlasImageName)
	if err := imaging.Save(atlas, imagePath); err != nil {
		return fmt.Errorf("saving atlas: %w", err)
	}
	dataPath := filepath.Join(opts.OutputDir, atlasDataName)
	if err := writeAtlasData(dataPath, newAtlasData(imagePath, width, height, infos, opts)); err != nil {
		return fmt.Errorf("writing atlas metadata: %w", err)
	}
	prog.done("Wrote atlas")

	out := cmd.OutOrStdout()
	printSuccess(out, "Packed %s sprites into %sx%s (%s%% used)",
		number(len(result.Rects)), number(width), number(height), number(fmt.Sprintf("%.2f", result.Used()*100)))
	if result.Fallback {
		printWarning(out, "tight repack missed; kept the first fitting layout")
	}
	printFile(out, imagePath)
	printFile(out, dataPath)
	return nil
}

// packing runs the engine as one unit of work.
func packing(ctx context.Context, sizes []rectpack.Size, opts rectpack.Options) (rectpack.Result, error) {
	packer, err := rectpack.NewPacker(opts)
	if err != nil {
		return rectpack.Result{}, err
	}
	result, err := packer.Pack(ctx, sizes)
	if err != nil {
		return rectpack.Result{}, fmt.Errorf("packing sprites: %w", err)
	}
	return result, nil
}
