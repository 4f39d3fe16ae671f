package images

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/nfnt/resize"
)

// FitSize returns the dimensions of a w x h image scaled down proportionally so that its
// larger side equals maxDim. Images that already fit, and a non-positive maxDim, keep
// their size. Neither side drops below 1.
func FitSize(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	scale := float32(maxDim) / float32(max(w, h))
	side := func(v int) int {
		n := int(math32.Round(float32(v) * scale))
		if n < 1 {
			return 1
		}
		if n > maxDim {
			return maxDim
		}
		return n
	}
	return side(w), side(h)
}

// FitWithin downscales img so that its larger side is at most maxDim, never upscaling.
//
// Arguments:
//   - img: The decoded source image.
//   - maxDim: The maximum side length; <= 0 disables the limit.
//
// Returns:
//   - image.Image: img itself when it already fits, otherwise a Lanczos-resampled copy.
func FitWithin(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}
