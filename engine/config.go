package engine

import (
	"os"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-mosaic/filter"
	"github.com/nvr-ai/go-mosaic/history"
	"github.com/nvr-ai/go-mosaic/mask"
	"github.com/nvr-ai/go-mosaic/mosaic"
	"github.com/nvr-ai/go-mosaic/selection"
)

// Config holds the engine settings. The zero value is not valid; start from DefaultConfig.
type Config struct {
	// MaxDimension is the largest side a loaded image may have; larger images are scaled down.
	MaxDimension int `yaml:"max_dimension" json:"max_dimension"`
	// HistoryLimit is the maximum undo depth.
	HistoryLimit int `yaml:"history_limit" json:"history_limit"`
	// CompressHistory stores undo snapshots zstd-compressed.
	CompressHistory bool `yaml:"compress_history" json:"compress_history"`
	// BlurBackend is one of mosaic.Backends().
	BlurBackend string `yaml:"blur_backend" json:"blur_backend"`
	// CacheBlur reuses the whole-image blur across stroke ticks while Base and radius are unchanged.
	CacheBlur bool `yaml:"cache_blur" json:"cache_blur"`

	DefaultBrushDiameter float32 `yaml:"default_brush_diameter" json:"default_brush_diameter"`
	DefaultBrushShape    string  `yaml:"default_brush_shape" json:"default_brush_shape"`
	DefaultTool          string  `yaml:"default_tool" json:"default_tool"`
	DefaultStyle         string  `yaml:"default_style" json:"default_style"`
	DefaultStrength      int     `yaml:"default_strength" json:"default_strength"`

	// Filter is applied to every loaded image until changed with ApplyGlobalFilter.
	Filter filter.Settings `yaml:"filter" json:"filter"`

	// PreviewDash is the dash length of the marquee preview outline in pixels.
	PreviewDash float64 `yaml:"preview_dash" json:"preview_dash"`
	// PreviewColor is the outline color as #rgb, #rrggbb or #rrggbbaa.
	PreviewColor string `yaml:"preview_color" json:"preview_color"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		MaxDimension:         1600,
		HistoryLimit:         history.DefaultLimit,
		BlurBackend:          mosaic.BackendGaussian,
		CacheBlur:            true,
		DefaultBrushDiameter: 40,
		DefaultBrushShape:    mask.Circle.String(),
		DefaultTool:          selection.ToolBrush.String(),
		DefaultStyle:         mosaic.StyleNone.String(),
		DefaultStrength:      5,
		Filter:               filter.Neutral(),
		PreviewDash:          6,
		PreviewColor:         "#ffffff",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
//
// Arguments:
//   - path: The YAML file.
//
// Returns:
//   - Config: The merged configuration.
//   - error: An error if the file cannot be read or parsed, or fails validation.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "engine: read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "engine: parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "engine: config %s", path)
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.MaxDimension < 0 {
		return errors.Errorf("max_dimension must be >= 0, got %d", c.MaxDimension)
	}
	if c.HistoryLimit < 1 {
		return errors.Errorf("history_limit must be >= 1, got %d", c.HistoryLimit)
	}
	if c.DefaultBrushDiameter < 1 {
		return errors.Errorf("default_brush_diameter must be >= 1, got %v", c.DefaultBrushDiameter)
	}
	if c.DefaultStrength < mosaic.MinStrength || c.DefaultStrength > mosaic.MaxStrength {
		return errors.Errorf("default_strength must be in %d..%d, got %d",
			mosaic.MinStrength, mosaic.MaxStrength, c.DefaultStrength)
	}
	if c.PreviewDash < 0 {
		return errors.Errorf("preview_dash must be >= 0, got %v", c.PreviewDash)
	}
	if !hexColor.MatchString(c.PreviewColor) {
		return errors.Errorf("preview_color %q is not a hex color", c.PreviewColor)
	}
	if _, err := mosaic.NewBlurrer(c.BlurBackend); err != nil {
		return err
	}
	_, err := c.controls()
	return err
}

// controls are the user-facing tool settings that Reset restores.
type controls struct {
	tool    selection.Tool
	brush   mask.Brush
	setting mosaic.Setting
}

func (c Config) controls() (controls, error) {
	tool, err := selection.ParseTool(c.DefaultTool)
	if err != nil {
		return controls{}, err
	}
	shape, err := mask.ParseShape(c.DefaultBrushShape)
	if err != nil {
		return controls{}, err
	}
	style, err := mosaic.ParseStyle(c.DefaultStyle)
	if err != nil {
		return controls{}, err
	}
	return controls{
		tool:    tool,
		brush:   mask.Brush{Shape: shape, Diameter: c.DefaultBrushDiameter},
		setting: mosaic.Setting{Style: style, Strength: c.DefaultStrength}.Normalize(),
	}, nil
}
