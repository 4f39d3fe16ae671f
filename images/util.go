package images

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/draw"
)

// ComputeChecksum generates a deterministic checksum of an image's pixels, independent of
// its in-memory pixel layout.
//
// Arguments:
// - img: The image to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string.
//
// Example:
//
// ```go
//
//	checksum := ComputeChecksum(engine.Display())
//	fmt.Printf("Display checksum: %s\n", checksum)
//
// ```
func ComputeChecksum(img image.Image) string {
	b := img.Bounds()
	if b.Empty() {
		return "empty"
	}

	n, ok := img.(*image.NRGBA)
	if !ok || n.Rect.Min != (image.Point{}) || n.Stride != 4*b.Dx() {
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Rect, img, b.Min, draw.Src)
	}
	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", b.Dx(), b.Dy())
	hash.Write(n.Pix[:4*b.Dx()*b.Dy()])
	return fmt.Sprintf("%x", hash.Sum(nil))
}
