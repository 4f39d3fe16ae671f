package mask

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// heartOutline is the heart silhouette in unit space: x and y in [-0.5, 0.5], y pointing
// down. The notch sits above the center and the two lobes meet at the bottom tip.
// Each entry is a cubic segment: two control points followed by the end point.
var heartOutline = [][6]float32{
	{-0.10, -0.45, -0.50, -0.45, -0.50, -0.12},
	{-0.50, 0.15, -0.20, 0.30, 0.00, 0.50},
	{0.20, 0.30, 0.50, 0.15, 0.50, -0.12},
	{0.50, -0.45, 0.10, -0.45, 0.00, -0.22},
}

// heartNotch is the starting point of the outline.
var heartNotch = [2]float32{0, -0.22}

// rasterizeHeart scales the unit heart by diameter around (cx, cy) and rasterizes its coverage
// into an alpha mask spanning bounds.
func rasterizeHeart(bounds image.Rectangle, cx, cy, diameter float32) *image.Alpha {
	a := image.NewAlpha(bounds)
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return a
	}

	// Rasterizer space is relative to bounds.Min.
	ox := cx - float32(bounds.Min.X)
	oy := cy - float32(bounds.Min.Y)
	pt := func(ux, uy float32) (float32, float32) {
		return ox + ux*diameter, oy + uy*diameter
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	z.MoveTo(pt(heartNotch[0], heartNotch[1]))
	for _, s := range heartOutline {
		bx, by := pt(s[0], s[1])
		cx, cy := pt(s[2], s[3])
		dx, dy := pt(s[4], s[5])
		z.CubeTo(bx, by, cx, cy, dx, dy)
	}
	z.ClosePath()
	z.Draw(a, bounds, image.Opaque, image.Point{})
	return a
}
