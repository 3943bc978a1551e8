package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Box is an integer rectangle in atlas or source pixel space.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Extent is an integer width and height.
type Extent struct {
	W int `json:"w"`
	H int `json:"h"`
}

// SpriteInfo describes where one sprite lives in the atlas.
type SpriteInfo struct {
	Filename string `json:"filename"`
	// Region is the area of the atlas holding the sprite, as drawn.
	Region Box `json:"region"`
	// SourceSize is the size of the original image.
	SourceSize Extent `json:"sourceSize"`
	// SourceRect is the trimmed area within the original image.
	SourceRect Box  `json:"sourceRect"`
	Trimmed    bool `json:"trimmed"`
	Rotated    bool `json:"rotated"`
}

func newSpriteInfo(s sprite, region image.Rectangle, rotated bool) SpriteInfo {
	return SpriteInfo{
		Filename:   filepath.Base(s.Path),
		Region:     Box{X: region.Min.X, Y: region.Min.Y, W: region.Dx(), H: region.Dy()},
		SourceSize: Extent{W: s.Bounds.Dx(), H: s.Bounds.Dy()},
		SourceRect: Box{
			X: s.Trim.Min.X - s.Bounds.Min.X,
			Y: s.Trim.Min.Y - s.Bounds.Min.Y,
			W: s.Trim.Dx(),
			H: s.Trim.Dy(),
		},
		Trimmed: s.trimmed(),
		Rotated: rotated,
	}
}

// AtlasMeta records how an atlas was produced.
type AtlasMeta struct {
	ID        string `json:"id"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Mode      string `json:"mode"`
	Padding   int    `json:"padding"`
}

// AtlasData is the JSON document written next to the atlas image.
type AtlasData struct {
	Meta       AtlasMeta             `json:"meta"`
	AtlasName  string                `json:"atlasName"`
	TotalSize  Extent                `json:"totalSize"`
	SpriteList map[string]SpriteInfo `json:"spriteList"`
}

func newAtlasData(atlasPath string, width, height int, sprites map[string]SpriteInfo, opts *Options) AtlasData {
	return AtlasData{
		Meta: AtlasMeta{
			ID:        uuid.NewString(),
			Version:   version,
			Timestamp: time.Now().Format("2006-01-02 15:04:05"),
			Mode:      opts.Mode,
			Padding:   opts.SpritePadding,
		},
		AtlasName:  filepath.Base(atlasPath),
		TotalSize:  Extent{W: width, H: height},
		SpriteList: sprites,
	}
}

func writeAtlasData(path string, data AtlasData) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readAtlasData(path string) (AtlasData, error) {
	var data AtlasData
	b, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(b, &data); err != nil {
		return data, fmt.Errorf("parsing %s: %w", path, err)
	}
	return data, nil
}
