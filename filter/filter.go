// Package filter - the global color pass applied to the Base buffer before any region edit.
package filter

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings are CSS-style color adjustments, all in percent.
// Brightness, Contrast and Saturation are neutral at 100; Grayscale and Sepia at 0.
type Settings struct {
	Brightness float32 `yaml:"brightness" json:"brightness"`
	Contrast   float32 `yaml:"contrast" json:"contrast"`
	Saturation float32 `yaml:"saturation" json:"saturation"`
	Grayscale  float32 `yaml:"grayscale" json:"grayscale"`
	Sepia      float32 `yaml:"sepia" json:"sepia"`
}

// Neutral returns settings that leave every pixel unchanged.
func Neutral() Settings {
	return Settings{Brightness: 100, Contrast: 100, Saturation: 100}
}

var settingKeys = map[string]bool{
	"brightness": true, "contrast": true, "saturation": true, "grayscale": true, "sepia": true,
}

// UnmarshalYAML decodes a mapping on top of Neutral, so omitted keys stay neutral.
// Unknown keys are rejected.
func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if k := value.Content[i]; !settingKeys[k.Value] {
				return errors.Errorf("filter: line %d: unknown setting %q", k.Line, k.Value)
			}
		}
	}
	type plain Settings
	p := plain(Neutral())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}

// IsNeutral reports whether applying s is the identity.
func (s Settings) IsNeutral() bool {
	return s.normalized() == Neutral()
}

// normalized clamps every field into its valid range.
func (s Settings) normalized() Settings {
	clamp := func(v, lo, hi float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return Settings{
		Brightness: clamp(s.Brightness, 0, 400),
		Contrast:   clamp(s.Contrast, 0, 400),
		Saturation: clamp(s.Saturation, 0, 400),
		Grayscale:  clamp(s.Grayscale, 0, 100),
		Sepia:      clamp(s.Sepia, 0, 100),
	}
}

// Matrix composes the settings into a single 4x5 color matrix (see Matrix). The order is
// brightness, contrast, saturation, grayscale, sepia, matching CSS filter lists.
func (s Settings) Matrix() Matrix {
	s = s.normalized()
	m := Identity()
	m = Brightness(s.Brightness / 100).Then(m)
	m = Contrast(s.Contrast / 100).Then(m)
	m = Saturation(s.Saturation / 100).Then(m)
	m = Grayscale(s.Grayscale / 100).Then(m)
	m = Sepia(s.Sepia / 100).Then(m)
	return m
}

// Apply draws src filtered by s into dst. Both images must share bounds.
//
// Arguments:
//   - dst: The destination, typically the Base buffer view.
//   - src: The unfiltered original.
//   - s: The adjustments; neutral settings copy src unchanged.
func Apply(dst *image.NRGBA, src image.Image, s Settings) {
	if s.IsNeutral() {
		gift.New().Draw(dst, src)
		return
	}
	m := s.Matrix()
	gift.New(gift.ColorFunc(m.apply)).Draw(dst, src)
}
