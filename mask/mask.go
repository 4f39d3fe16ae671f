// Package mask - clip regions for brush-shaped and rectangular edits, and masked compositing.
package mask

import (
	"image"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/raster"
)

// Shape is the silhouette of a brush.
type Shape int

const (
	// Circle is a disc of radius diameter/2.
	Circle Shape = iota
	// Square is an axis-aligned square with side equal to the diameter.
	Square
	// Heart is a parametric heart scaled to the diameter.
	Heart
)

var shapeNames = map[Shape]string{
	Circle: "circle",
	Square: "square",
	Heart:  "heart",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseShape maps a case-insensitive name to a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Circle, errors.Errorf("mask: unknown brush shape %q", name)
}

// Brush couples a shape with a positive diameter in pixels.
type Brush struct {
	Shape    Shape
	Diameter float32
}

// coverageThreshold is the minimum rasterized coverage for a pixel to count as inside.
const coverageThreshold = 128

// Clip is a region within which a paint operation may modify pixels.
// Bounds is the bounding rectangle in buffer coordinates and may extend past the buffer.
// A nil coverage means every pixel of Bounds is inside.
type Clip struct {
	Bounds   image.Rectangle
	coverage *image.Alpha
}

// FullRegion returns the trivial clip covering all of r. Rectangle selections use it.
func FullRegion(r image.Rectangle) Clip {
	return Clip{Bounds: r.Canon()}
}

// Empty reports whether the clip can never contain a pixel.
func (c Clip) Empty() bool {
	return c.Bounds.Empty()
}

// Contains reports whether the pixel at (x, y) is inside the clip.
func (c Clip) Contains(x, y int) bool {
	if !(image.Point{X: x, Y: y}).In(c.Bounds) {
		return false
	}
	if c.coverage == nil {
		return true
	}
	return c.coverage.AlphaAt(x, y).A >= coverageThreshold
}

// Compute builds the clip for a brush stamped at (cx, cy).
//
// Arguments:
//   - shape: The brush silhouette.
//   - cx, cy: Stamp center in buffer coordinates (may be fractional).
//   - diameter: Brush size in pixels; values below 1 are treated as 1.
//
// Returns:
//   - Clip: The clip; its Bounds is the unclamped bounding box floor(center - d/2) .. +d.
func Compute(shape Shape, cx, cy, diameter float32) Clip {
	if diameter < 1 {
		diameter = 1
	}
	half := diameter / 2
	x0 := int(math32.Floor(cx - half))
	y0 := int(math32.Floor(cy - half))
	size := int(math32.Ceil(diameter))
	bounds := raster.Rect(x0, y0, size, size)

	switch shape {
	case Square:
		return Clip{Bounds: bounds}
	case Heart:
		return Clip{Bounds: bounds, coverage: rasterizeHeart(bounds, cx, cy, diameter)}
	default:
		return Clip{Bounds: bounds, coverage: disc(bounds, cx, cy, half)}
	}
}

// disc marks every pixel whose center lies within radius of center.
func disc(bounds image.Rectangle, cx, cy, radius float32) *image.Alpha {
	a := image.NewAlpha(bounds)
	r2 := radius * radius
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := float32(y) + 0.5 - cy
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float32(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				a.Pix[a.PixOffset(x, y)] = 0xff
			}
		}
	}
	return a
}

// PaintMasked copies src into dst for every pixel of region that lies inside clip.
// src is addressed in dst coordinates; pixels of region that src does not cover, that fall
// outside dst, or that are outside clip are left untouched.
func PaintMasked(dst *raster.Buffer, src image.Image, region image.Rectangle, clip Clip) {
	region = raster.Clamp(region, dst.Bounds())
	region = region.Intersect(clip.Bounds).Intersect(src.Bounds())
	if region.Empty() {
		return
	}
	out := dst.NRGBA()
	if n, ok := src.(*image.NRGBA); ok {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			for x := region.Min.X; x < region.Max.X; x++ {
				if !clip.Contains(x, y) {
					continue
				}
				so := n.PixOffset(x, y)
				do := out.PixOffset(x, y)
				copy(out.Pix[do:do+4], n.Pix[so:so+4])
			}
		}
		return
	}
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			if clip.Contains(x, y) {
				out.Set(x, y, src.At(x, y))
			}
		}
	}
}
