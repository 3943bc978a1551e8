package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spritesheet/rectpack"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// flagCmd returns a command with opts bound to its flags, parsed from args.
func flagCmd(t *testing.T, opts *Options, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	bindFlags(cmd.Flags(), opts)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyConfig_NoPath(t *testing.T) {
	opts := defaultOptions()
	cmd := flagCmd(t, &opts)
	require.NoError(t, applyConfig(cmd, "", &opts))
	assert.Equal(t, defaultOptions(), opts)
}

func TestApplyConfig_FileOverridesDefaults(t *testing.T) {
	opts := defaultOptions()
	cmd := flagCmd(t, &opts)
	path := writeConfig(t, `
input = "sprites"
padding = 3
rotate = false
mode = "top-bottom"
sort = "area"
max_width = 1024
threshold = 16
`)

	require.NoError(t, applyConfig(cmd, path, &opts))
	assert.Equal(t, "sprites", opts.InputDir)
	assert.Equal(t, "output", opts.OutputDir, "unset keys keep the default")
	assert.Equal(t, 3, opts.SpritePadding)
	assert.False(t, opts.IsAllowRotate)
	assert.Equal(t, "top-bottom", opts.Mode)
	assert.Equal(t, "area", opts.Sort)
	assert.Equal(t, 1024, opts.AtlasMaxWidth)
	assert.Equal(t, 4096, opts.AtlasMaxHeight)
	assert.Equal(t, uint(16), opts.TransparencyThreshold)
}

func TestApplyConfig_FlagsWin(t *testing.T) {
	opts := defaultOptions()
	cmd := flagCmd(t, &opts, "--padding", "7", "--rotate=true", "-m", "left-right")
	path := writeConfig(t, `
padding = 3
rotate = false
mode = "top-bottom"
trim = false
`)

	require.NoError(t, applyConfig(cmd, path, &opts))
	assert.Equal(t, 7, opts.SpritePadding)
	assert.True(t, opts.IsAllowRotate)
	assert.Equal(t, "left-right", opts.Mode)
	assert.False(t, opts.IsTrimTransparent, "not given on the command line")
}

func TestApplyConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "speed = 3\n", `unknown key "speed"`},
		{"wrong type", "padding = \"wide\"\n", "reading config"},
		{"syntax", "padding = \n", "reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			cmd := flagCmd(t, &opts)
			err := applyConfig(cmd, writeConfig(t, tt.body), &opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		opts := defaultOptions()
		cmd := flagCmd(t, &opts)
		err := applyConfig(cmd, filepath.Join(t.TempDir(), "none.toml"), &opts)
		require.Error(t, err)
	})
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   string
	}{
		{"defaults", func(*Options) {}, ""},
		{"no input", func(o *Options) { o.InputDir = "" }, "input directory"},
		{"no output", func(o *Options) { o.OutputDir = "" }, "output directory"},
		{"negative padding", func(o *Options) { o.SpritePadding = -2 }, "padding"},
		{"negative max", func(o *Options) { o.AtlasMaxHeight = -1 }, "maximum atlas size"},
		{"threshold", func(o *Options) { o.TransparencyThreshold = 256 }, "threshold"},
		{"unlimited", func(o *Options) { o.AtlasMaxWidth, o.AtlasMaxHeight = 0, 0 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.modify(&opts)
			err := opts.validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOptions_PackerOptions(t *testing.T) {
	opts := defaultOptions()
	opts.SpritePadding = 5
	opts.IsAllowRotate = false
	opts.Mode = "Left-Right"
	opts.Speculative = 4

	got, err := opts.packerOptions()
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Padding)
	assert.Equal(t, rectpack.ModeLeftRight, got.Mode)
	assert.False(t, got.AllowRotate)
	assert.Equal(t, 4, got.Speculative)
	assert.NotNil(t, got.Sort)
	assert.Equal(t, rectpack.DefaultMaxAttempts, got.MaxAttempts)
	assert.Equal(t, rectpack.DefaultGrowthFactor, got.GrowthFactor)
}

func TestOptions_PackerOptionsInvalid(t *testing.T) {
	opts := defaultOptions()
	opts.Mode = "diagonal"
	_, err := opts.packerOptions()
	assert.True(t, rectpack.Is(err, rectpack.ErrCodeInvalidInput))

	opts = defaultOptions()
	opts.Sort = "shuffle"
	_, err = opts.packerOptions()
	assert.True(t, rectpack.Is(err, rectpack.ErrCodeInvalidInput))
}
