// Package raster - owned RGBA pixel grids and bounds-safe region copies.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
)

// ErrRegionSize is returned when a pixel slice does not match the region it should fill.
var ErrRegionSize = errors.New("raster: pixel data does not match region size")

// Buffer is a width x height grid of non-premultiplied RGBA samples stored row-major,
// 4 bytes per pixel. len(pix) == width*height*4 always holds.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New creates a zeroed (fully transparent) buffer. Negative dimensions are treated as zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies img into a new buffer whose origin is img.Bounds().Min.
//
// Arguments:
//   - img: Any image; it is converted to non-premultiplied RGBA.
//
// Returns:
//   - *Buffer: A buffer of img.Bounds().Dx() x img.Bounds().Dy() pixels.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	buf := New(b.Dx(), b.Dy())
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < buf.height; y++ {
			off := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(buf.pix[y*buf.stride():(y+1)*buf.stride()], n.Pix[off:off+buf.stride()])
		}
		return buf
	}
	draw.Draw(buf.NRGBA(), buf.Bounds(), img, b.Min, draw.Src)
	return buf
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the rectangle (0,0)-(width,height).
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// Pix returns the raw sample slice. Callers outside the engine must treat it as read-only.
func (b *Buffer) Pix() []uint8 { return b.pix }

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool { return b.width == 0 || b.height == 0 }

func (b *Buffer) stride() int { return b.width * 4 }

// NRGBA returns an *image.NRGBA sharing the buffer's storage.
// Writes through the view mutate the buffer.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.stride(),
		Rect:   b.Bounds(),
	}
}

// Resize reallocates the buffer to the given dimensions, discarding the old contents.
func (b *Buffer) Resize(width, height int) {
	nb := New(width, height)
	b.width, b.height, b.pix = nb.width, nb.height, nb.pix
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{width: b.width, height: b.height, pix: make([]uint8, len(b.pix))}
	copy(c.pix, b.pix)
	return c
}

// CopyFrom replaces the buffer's dimensions and contents with src's.
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.width != src.width || b.height != src.height {
		b.Resize(src.width, src.height)
	}
	copy(b.pix, src.pix)
}

// Equal reports whether both buffers have the same dimensions and identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height && bytes.Equal(b.pix, o.pix)
}

// ReadPixel returns the pixel at (x, y). ok is false when the point lies outside the buffer.
func (b *Buffer) ReadPixel(x, y int) (c color.NRGBA, ok bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}, false
	}
	i := (y*b.width + x) * 4
	return color.NRGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}, true
}

// WritePixel sets the pixel at (x, y). Points outside the buffer are ignored.
func (b *Buffer) WritePixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// ReadRegion returns a copy of the samples inside r clamped to the buffer, together with the
// clamped rectangle. An empty clamped rectangle yields a nil slice.
func (b *Buffer) ReadRegion(r image.Rectangle) ([]uint8, image.Rectangle) {
	r = Clamp(r, b.Bounds())
	if r.Empty() {
		return nil, r
	}
	out := make([]uint8, r.Dx()*r.Dy()*4)
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := (y*b.width + r.Min.X) * 4
		copy(out[(y-r.Min.Y)*n:(y-r.Min.Y+1)*n], b.pix[off:off+n])
	}
	return out, r
}

// WriteRegion writes pix, laid out row-major for the full (unclamped) rectangle r, into the
// buffer. Rows and columns of r that fall outside the buffer are skipped.
//
// Returns:
//   - error: ErrRegionSize when len(pix) != r.Dx()*r.Dy()*4.
func (b *Buffer) WriteRegion(r image.Rectangle, pix []uint8) error {
	r = r.Canon()
	if len(pix) != r.Dx()*r.Dy()*4 {
		return errors.Wrapf(ErrRegionSize, "got %d bytes for %v", len(pix), r)
	}
	clipped := Clamp(r, b.Bounds())
	if clipped.Empty() {
		return nil
	}
	srcStride := r.Dx() * 4
	n := clipped.Dx() * 4
	for y := clipped.Min.Y; y < clipped.Max.Y; y++ {
		so := (y-r.Min.Y)*srcStride + (clipped.Min.X-r.Min.X)*4
		do := (y*b.width + clipped.Min.X) * 4
		copy(b.pix[do:do+n], pix[so:so+n])
	}
	return nil
}

// CopyRegionFrom copies srcRegion of src so that its top-left lands on dstOrigin.
// The source rectangle is clamped to src and the destination rectangle to b independently;
// when either clamp leaves nothing the call is a no-op. Nothing outside b is ever written.
func (b *Buffer) CopyRegionFrom(src *Buffer, srcRegion image.Rectangle, dstOrigin image.Point) {
	srcRegion = srcRegion.Canon()
	clipped := Clamp(srcRegion, src.Bounds())
	if clipped.Empty() {
		return
	}
	dstOrigin = dstOrigin.Add(clipped.Min.Sub(srcRegion.Min))
	dst := image.Rectangle{Min: dstOrigin, Max: dstOrigin.Add(clipped.Size())}
	dstClipped := Clamp(dst, b.Bounds())
	if dstClipped.Empty() {
		return
	}
	srcMin := clipped.Min.Add(dstClipped.Min.Sub(dst.Min))
	n := dstClipped.Dx() * 4
	for dy := 0; dy < dstClipped.Dy(); dy++ {
		so := ((srcMin.Y+dy)*src.width + srcMin.X) * 4
		do := ((dstClipped.Min.Y+dy)*b.width + dstClipped.Min.X) * 4
		copy(b.pix[do:do+n], src.pix[so:so+n])
	}
}
