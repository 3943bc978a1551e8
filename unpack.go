package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newUnpackCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "unpack <atlas.json>",
		Short: "Cut an atlas back into its sprite images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd, args[0], outputDir)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "unpacked", "output directory")
	return cmd
}

func runUnpack(cmd *cobra.Command, dataPath, outputDir string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := readAtlasData(dataPath)
	if err != nil {
		return fmt.Errorf("reading atlas metadata: %w", err)
	}
	atlasPath := filepath.Join(filepath.Dir(dataPath), data.AtlasName)
	atlas, err := imaging.Open(atlasPath)
	if err != nil {
		return fmt.Errorf("opening atlas image: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for name, info := range data.SpriteList {
		name, info := name, info
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(outputDir, filepath.Base(name))
			if err := imaging.Save(extractSprite(atlas, info), path); err != nil {
				return fmt.Errorf("saving %s: %w", path, err)
			}
			logger.Debug("extracted sprite", "name", name, "rotated", info.Rotated, "trimmed", info.Trimmed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Unpacked %d sprites", len(data.SpriteList)))

	printSuccess(cmd.OutOrStdout(), "Unpacked %s sprites", number(len(data.SpriteList)))
	printFile(cmd.OutOrStdout(), outputDir)
	return nil
}

// extractSprite cuts info's region out of the atlas and undoes the rotation
// and trimming applied when it was packed.
func extractSprite(atlas image.Image, info SpriteInfo) *image.NRGBA {
	r := info.Region
	sub := imaging.Crop(atlas, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Add(atlas.Bounds().Min))
	if info.Rotated {
		sub = imaging.Rotate90(sub)
	}
	if !info.Trimmed {
		return sub
	}
	canvas := imaging.New(info.SourceSize.W, info.SourceSize.H, color.NRGBA{0, 0, 0, 0})
	return imaging.Paste(canvas, sub, image.Pt(info.SourceRect.X, info.SourceRect.Y))
}
