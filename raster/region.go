package raster

import "image"

// Rect builds the rectangle with top-left (x, y) and size w x h.
func Rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// Clamp intersects r with bounds. Degenerate input yields an empty rectangle.
func Clamp(r, bounds image.Rectangle) image.Rectangle {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return image.Rectangle{}
	}
	return r.Intersect(bounds)
}

// Normalize returns the rectangle spanned by two corner points, min/max per axis.
func Normalize(a, b image.Point) image.Rectangle {
	return image.Rectangle{Min: a, Max: b}.Canon()
}
