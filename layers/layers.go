// Package layers - the two working buffers of an editing session.
package layers

import (
	"image"

	"github.com/nvr-ai/go-mosaic/raster"
)

// Model holds the unfiltered original, the filtered Base and the user-visible Display.
// All three always share dimensions.
//
// Base is written only on creation, by Rebuild (the global filter pass) and by Resize.
// Display is written by Reset and by the engine's masked paints and history restores.
type Model struct {
	original *raster.Buffer
	base     *raster.Buffer
	display  *raster.Buffer
	version  uint64
}

// New builds a model whose original, Base and Display are copies of img.
func New(img image.Image) *Model {
	original := raster.FromImage(img)
	return &Model{
		original: original,
		base:     original.Clone(),
		display:  original.Clone(),
		version:  1,
	}
}

// Original returns the unfiltered source buffer.
func (m *Model) Original() *raster.Buffer { return m.original }

// Base returns the filtered, edit-independent buffer.
func (m *Model) Base() *raster.Buffer { return m.base }

// Display returns the buffer that accumulates edits.
func (m *Model) Display() *raster.Buffer { return m.display }

// Size returns the shared dimensions.
func (m *Model) Size() (int, int) { return m.base.Width(), m.base.Height() }

// Bounds returns the shared bounds.
func (m *Model) Bounds() image.Rectangle { return m.base.Bounds() }

// Version identifies the current Base contents; it changes on every Base write.
func (m *Model) Version() uint64 { return m.version }

// Rebuild recomputes Base from the original with fn and then resets Display to it.
//
// Arguments:
//   - fn: Writes the new Base into dst given the unfiltered src; both share bounds.
func (m *Model) Rebuild(fn func(dst *image.NRGBA, src image.Image)) {
	fn(m.base.NRGBA(), m.original.NRGBA())
	m.version++
	m.Reset()
}

// Reset discards all edits by copying Base into Display.
func (m *Model) Reset() {
	m.display.CopyFrom(m.base)
}

// Resize reallocates every buffer to w x h together, discarding all contents.
func (m *Model) Resize(w, h int) {
	m.original.Resize(w, h)
	m.base.Resize(w, h)
	m.display.Resize(w, h)
	m.version++
}
