package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"golang.org/x/sync/errgroup"

	"spritesheet/rectpack"
)

// sprite is one input image. Trim is the region that gets packed; it equals
// Bounds when trimming is off or finds nothing to remove.
type sprite struct {
	Path   string
	Bounds image.Rectangle
	Trim   image.Rectangle
}

func (s sprite) trimmed() bool {
	return s.Trim != s.Bounds
}

// imageBBox returns the bounds of the pixels whose alpha is above threshold.
// A fully transparent image returns its full bounds.
func imageBBox(img image.Image, threshold uint8) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	mark := func(x, y int) {
		minX, minY = min(minX, x), min(minY, y)
		maxX, maxY = max(maxX, x), max(maxY, y)
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if src.Pix[i+3] > threshold {
					mark(x, y)
				}
				i += 4
			}
		}
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := src.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if src.Pix[i+3] > threshold {
					mark(x, y)
				}
				i += 4
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if uint8(a>>8) > threshold {
					mark(x, y)
				}
			}
		}
	}
	if maxX < minX {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// findImages lists the *.png files of dir, in natural order when sorted is set.
func findImages(dir string, sorted bool) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no png images found in %s", dir)
	}
	if sorted {
		sort.Sort(natural.StringSlice(paths))
	}
	return paths, nil
}

// loadSprites reads the size of every image, trimming transparent borders
// when opts asks for it. Images are decoded concurrently.
func loadSprites(ctx context.Context, paths []string, opts *Options) ([]sprite, error) {
	sprites := make([]sprite, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !opts.IsTrimTransparent {
				// Only the header is needed for the size.
				file, err := os.Open(path)
				if err != nil {
					return err
				}
				cfg, _, err := image.DecodeConfig(file)
				file.Close()
				if err != nil {
					return fmt.Errorf("decoding %s: %w", path, err)
				}
				bounds := image.Rect(0, 0, cfg.Width, cfg.Height)
				sprites[i] = sprite{Path: path, Bounds: bounds, Trim: bounds}
				return nil
			}
			src, err := imaging.Open(path)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}
			sprites[i] = sprite{
				Path:   path,
				Bounds: src.Bounds(),
				Trim:   imageBBox(src, uint8(opts.TransparencyThreshold)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sprites, nil
}

// spriteSizes converts sprites into packer input. The ID is the sprite index.
func spriteSizes(sprites []sprite) []rectpack.Size {
	sizes := make([]rectpack.Size, len(sprites))
	for i, s := range sprites {
		sizes[i] = rectpack.NewSizeID(i, float64(s.Trim.Dx()), float64(s.Trim.Dy()))
	}
	return sizes
}

// atlasSize rounds the packed canvas to whole pixels, optionally up to powers of two.
func atlasSize(bin rectpack.Size, powerOfTwo bool) (int, int) {
	w, h := int(math.Ceil(bin.Width)), int(math.Ceil(bin.Height))
	if powerOfTwo {
		w, h = nextPowerOfTwo(w), nextPowerOfTwo(h)
	}
	return w, h
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// createAtlasImage draws every packed sprite onto a transparent canvas and
// returns the canvas with the sprite metadata keyed by file name.
func createAtlasImage(ctx context.Context, result rectpack.Result, sprites []sprite, width, height int) (*image.NRGBA, map[string]SpriteInfo, error) {
	dst := imaging.New(width, height, color.NRGBA{0, 0, 0, 0})
	infos := make(map[string]SpriteInfo, len(result.Rects))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, rect := range result.Rects {
		rect := rect
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := sprites[rect.ID]
			src, err := imaging.Open(s.Path)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", s.Path, err)
			}
			part := imaging.Crop(src, s.Trim)
			if rect.Rotated {
				part = imaging.Rotate270(part)
			}

			x, y := int(math.Round(rect.X)), int(math.Round(rect.Y))
			region := image.Rect(x, y, x+part.Bounds().Dx(), y+part.Bounds().Dy())
			info := newSpriteInfo(s, region, rect.Rotated)

			mu.Lock()
			defer mu.Unlock()
			draw.Draw(dst, region, part, part.Bounds().Min, draw.Src)
			infos[info.Filename] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return dst, infos, nil
}
