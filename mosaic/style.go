// Package mosaic - pixelate and blur obfuscation of Base-buffer regions.
package mosaic

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Style selects the obfuscation applied by a brush stroke or a rectangle selection.
type Style int

const (
	// StyleNone disables mosaic painting.
	StyleNone Style = iota
	// StylePixelate replaces the region with enlarged blocks.
	StylePixelate
	// StyleGlass is a light "frosted glass" blur.
	StyleGlass
	// StyleBlur is a strong blur.
	StyleBlur
)

var styleNames = map[Style]string{
	StyleNone:     "none",
	StylePixelate: "pixelate",
	StyleGlass:    "glass",
	StyleBlur:     "blur",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStyle maps a case-insensitive name to a Style. "pixel" is accepted for pixelate.
func ParseStyle(name string) (Style, error) {
	if strings.EqualFold(name, "pixel") {
		return StylePixelate, nil
	}
	for s, n := range styleNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return StyleNone, errors.Errorf("mosaic: unknown style %q", name)
}

const (
	// MinStrength and MaxStrength bound the user strength dial.
	MinStrength = 1
	MaxStrength = 10

	glassRadiusPerStrength = 0.8
	blurRadiusPerStrength  = 2.0
)

// Setting is a style together with its 1..10 strength.
type Setting struct {
	Style    Style
	Strength int
}

// Normalize clamps Strength into [MinStrength, MaxStrength].
func (s Setting) Normalize() Setting {
	s.Strength = ClampStrength(s.Strength)
	return s
}

// ClampStrength clamps a strength dial value into [MinStrength, MaxStrength].
func ClampStrength(strength int) int {
	if strength < MinStrength {
		return MinStrength
	}
	if strength > MaxStrength {
		return MaxStrength
	}
	return strength
}

// BlockSize returns the pixelate block edge for a strength: 4 + (strength-1)*8, i.e. 4..76.
func BlockSize(strength int) int {
	return 4 + (ClampStrength(strength)-1)*8
}

// GridSize returns the downsample grid for a sw x sh region: round(side/blockSize), at least 1.
func GridSize(sw, sh, blockSize int) (int, int) {
	cells := func(side int) int {
		n := int(math32.Round(float32(side) / float32(blockSize)))
		if n < 1 {
			return 1
		}
		return n
	}
	return cells(sw), cells(sh)
}

// BlurRadius returns the blur radius in pixels for Glass (0.8 per step) and Blur (2.0 per
// step). Other styles have no blur radius.
func BlurRadius(style Style, strength int) float32 {
	switch style {
	case StyleGlass:
		return glassRadiusPerStrength * float32(ClampStrength(strength))
	case StyleBlur:
		return blurRadiusPerStrength * float32(ClampStrength(strength))
	default:
		return 0
	}
}
