package mosaic

import (
	"image"

	"golang.org/x/image/draw"
)

// Pixelate produces the blocky version of region taken from src.
//
// The region is nearest-neighbor downsampled into a GridSize(w, h, BlockSize(strength))
// grid and then nearest-neighbor magnified back to its original size.
//
// Arguments:
//   - src: The source image, usually the Base buffer view.
//   - region: The rectangle to pixelate; it is clamped to src.Bounds().
//   - strength: The 1..10 dial value.
//
// Returns:
//   - *image.NRGBA: A patch whose Rect equals the clamped region, or nil when it is empty.
func Pixelate(src image.Image, region image.Rectangle, strength int) *image.NRGBA {
	region = region.Canon().Intersect(src.Bounds())
	if region.Empty() {
		return nil
	}
	sw, sh := region.Dx(), region.Dy()
	gw, gh := GridSize(sw, sh, BlockSize(strength))

	small := image.NewNRGBA(image.Rect(0, 0, gw, gh))
	draw.NearestNeighbor.Scale(small, small.Bounds(), src, region, draw.Src, nil)

	patch := image.NewNRGBA(region)
	draw.NearestNeighbor.Scale(patch, region, small, small.Bounds(), draw.Src, nil)
	return patch
}
