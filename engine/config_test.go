package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-mosaic/filter"
	"github.com/nvr-ai/go-mosaic/mask"
	"github.com/nvr-ai/go-mosaic/mosaic"
	"github.com/nvr-ai/go-mosaic/selection"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mosaic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1600, cfg.MaxDimension)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.True(t, cfg.Filter.IsNeutral())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
max_dimension: 800
history_limit: 5
compress_history: true
blur_backend: box
default_tool: eraser
default_brush_shape: heart
default_brush_diameter: 12
default_style: glass
default_strength: 7
filter:
  brightness: 110
  contrast: 100
  saturation: 100
  grayscale: 0
  sepia: 25
preview_color: "#f00"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.MaxDimension)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.True(t, cfg.CompressHistory)
	assert.Equal(t, mosaic.BackendBox, cfg.BlurBackend)
	assert.True(t, cfg.CacheBlur, "unset keys keep their defaults")
	assert.Equal(t, 6.0, cfg.PreviewDash)
	assert.Equal(t, filter.Settings{Brightness: 110, Contrast: 100, Saturation: 100, Sepia: 25}, cfg.Filter)

	e := newEngine(t, cfg)
	assert.Equal(t, selection.ToolEraser, e.Tool())
	assert.Equal(t, mask.Brush{Shape: mask.Heart, Diameter: 12}, e.Brush())
	assert.Equal(t, mosaic.Setting{Style: mosaic.StyleGlass, Strength: 7}, e.Mosaic())
	assert.Equal(t, cfg.Filter, e.Filter())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "max_dimension: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "default_strength: 11"))
	assert.ErrorContains(t, err, "default_strength")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"negative max dimension", func(c *Config) { c.MaxDimension = -1 }, "max_dimension"},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }, "history_limit"},
		{"tiny brush", func(c *Config) { c.DefaultBrushDiameter = 0.5 }, "default_brush_diameter"},
		{"strength", func(c *Config) { c.DefaultStrength = 0 }, "default_strength"},
		{"dash", func(c *Config) { c.PreviewDash = -2 }, "preview_dash"},
		{"color", func(c *Config) { c.PreviewColor = "white" }, "preview_color"},
		{"backend", func(c *Config) { c.BlurBackend = "cuda" }, "cuda"},
		{"tool", func(c *Config) { c.DefaultTool = "lasso" }, "lasso"},
		{"shape", func(c *Config) { c.DefaultBrushShape = "star" }, "star"},
		{"style", func(c *Config) { c.DefaultStyle = "swirl" }, "swirl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)

			_, err = New(cfg)
			assert.Error(t, err)
		})
	}
}
