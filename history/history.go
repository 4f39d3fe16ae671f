// Package history - bounded snapshot-based undo/redo for the Display buffer.
package history

import (
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/raster"
)

// DefaultLimit is the default maximum number of undo entries.
const DefaultLimit = 20

// Entry is an immutable snapshot of a buffer's pixels at one instant.
type Entry struct {
	width, height int
	data          []byte
	compressed    bool
}

// Size returns the snapshot dimensions.
func (e *Entry) Size() (int, int) { return e.width, e.height }

// Bytes returns how many bytes the snapshot occupies in memory.
func (e *Entry) Bytes() int { return len(e.data) }

// Options configures a History.
type Options struct {
	// Limit is the maximum undo depth; values < 1 select DefaultLimit.
	Limit int
	// Compress stores snapshots zstd-compressed.
	Compress bool
}

// History holds a bounded undo stack and an unbounded redo stack of Display snapshots.
// Any new commit clears the redo stack.
type History struct {
	limit int
	undo  []*Entry
	redo  []*Entry

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New creates an empty history.
//
// Returns:
//   - *History: The history.
//   - error: An error if the zstd codec cannot be created.
func New(opts Options) (*History, error) {
	h := &History{limit: opts.Limit}
	if h.limit < 1 {
		h.limit = DefaultLimit
	}
	if opts.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrap(err, "history: create zstd encoder")
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.Wrap(err, "history: create zstd decoder")
		}
		h.enc, h.dec = enc, dec
	}
	return h, nil
}

// Limit returns the maximum undo depth.
func (h *History) Limit() int { return h.limit }

// Capture snapshots buf without touching either stack. The returned entry never aliases buf.
func (h *History) Capture(buf *raster.Buffer) *Entry {
	e := &Entry{width: buf.Width(), height: buf.Height()}
	if h.enc != nil {
		e.data = h.enc.EncodeAll(buf.Pix(), nil)
		e.compressed = true
		return e
	}
	e.data = make([]byte, len(buf.Pix()))
	copy(e.data, buf.Pix())
	return e
}

// Push records e as the most recent undo entry, evicting the oldest entry beyond the limit,
// and clears the redo stack.
func (h *History) Push(e *Entry) {
	h.undo = append(h.undo, e)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
	h.redo = nil
}

// Commit snapshots buf and pushes it (see Push).
func (h *History) Commit(buf *raster.Buffer) {
	h.Push(h.Capture(buf))
}

// Undo restores the most recent undo snapshot into buf after saving buf's current state on
// the redo stack. It reports false, changing nothing, when there is nothing to undo.
func (h *History) Undo(buf *raster.Buffer) (bool, error) {
	return h.step(buf, &h.undo, &h.redo)
}

// Redo is the mirror of Undo.
func (h *History) Redo(buf *raster.Buffer) (bool, error) {
	return h.step(buf, &h.redo, &h.undo)
}

func (h *History) step(buf *raster.Buffer, from, to *[]*Entry) (bool, error) {
	if len(*from) == 0 {
		return false, nil
	}
	last := (*from)[len(*from)-1]
	current := h.Capture(buf)
	if err := h.restore(last, buf); err != nil {
		return false, err
	}
	*from = (*from)[:len(*from)-1]
	*to = append(*to, current)
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = append(h.undo[:0:0], h.undo[over:]...)
	}
	return true, nil
}

// restore copies e into buf. Snapshots always match buf's dimensions because the engine
// clears history whenever dimensions change.
func (h *History) restore(e *Entry, buf *raster.Buffer) error {
	if w, ht := e.Size(); w != buf.Width() || ht != buf.Height() {
		return errors.Errorf("history: snapshot is %dx%d but buffer is %dx%d",
			w, ht, buf.Width(), buf.Height())
	}
	data := e.data
	if e.compressed {
		var err error
		data, err = h.dec.DecodeAll(e.data, make([]byte, 0, len(buf.Pix())))
		if err != nil {
			return errors.Wrap(err, "history: decode snapshot")
		}
	}
	if len(data) != len(buf.Pix()) {
		return errors.Errorf("history: snapshot holds %d bytes, want %d", len(data), len(buf.Pix()))
	}
	copy(buf.Pix(), data)
	return nil
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

// UndoDepth returns the number of undo entries.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redo entries.
func (h *History) RedoDepth() int { return len(h.redo) }

// Close releases the codec resources.
func (h *History) Close() {
	if h.enc != nil {
		_ = h.enc.Close()
	}
	if h.dec != nil {
		h.dec.Close()
	}
}
