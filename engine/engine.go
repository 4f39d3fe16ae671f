// Package engine - the raster editing engine: layered buffers, masked mosaic/blur/erase
// painting driven by pointer gestures, a one-way global filter lock and bounded undo/redo.
//
// An Engine is single-threaded. Every operation runs to completion before it returns and
// callers must not invoke operations concurrently.
package engine

import (
	"image"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/filter"
	"github.com/nvr-ai/go-mosaic/history"
	"github.com/nvr-ai/go-mosaic/images"
	"github.com/nvr-ai/go-mosaic/layers"
	"github.com/nvr-ai/go-mosaic/mask"
	"github.com/nvr-ai/go-mosaic/mosaic"
	"github.com/nvr-ai/go-mosaic/raster"
	"github.com/nvr-ai/go-mosaic/selection"
)

// Engine owns one editing session.
type Engine struct {
	cfg      Config
	defaults controls

	model   *layers.Model
	history *history.History
	lock    filter.Lock
	blur    *mosaic.BlurCache
	machine selection.Machine
	filter  filter.Settings

	tool    selection.Tool
	brush   mask.Brush
	setting mosaic.Setting

	// stroke state, valid while the machine is BrushDragging
	strokeTool  selection.Tool
	strokeStart *history.Entry
	strokeDirty bool
}

// New creates an engine with no image loaded.
//
// Arguments:
//   - cfg: The configuration; see DefaultConfig.
//
// Returns:
//   - *Engine: The engine.
//   - error: An error if cfg is invalid or a resource cannot be created.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "engine: invalid config")
	}
	defaults, err := cfg.controls()
	if err != nil {
		return nil, err
	}
	blurrer, err := mosaic.NewBlurrer(cfg.BlurBackend)
	if err != nil {
		return nil, err
	}
	h, err := history.New(history.Options{Limit: cfg.HistoryLimit, Compress: cfg.CompressHistory})
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		defaults: defaults,
		history:  h,
		blur:     mosaic.NewBlurCache(blurrer, cfg.CacheBlur),
		filter:   cfg.Filter,
	}
	e.restoreControls()
	return e, nil
}

// Close releases history resources. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.history.Close()
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// LoadImage starts a new session on img. The image is scaled down to fit the configured
// maximum dimension, the current filter settings are applied to produce Base, history is
// cleared and the filter lock is released.
func (e *Engine) LoadImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New("engine: cannot load an empty image")
	}
	src := img.Bounds()
	fitted := images.FitWithin(img, e.cfg.MaxDimension)

	e.machine.Cancel()
	e.endStroke()
	e.model = layers.New(fitted)
	e.history.Clear()
	e.lock.Release()
	e.blur.Invalidate()
	e.rebuildBase()

	w, h := e.model.Size()
	Logger().Info("image loaded",
		slog.Int("src_width", src.Dx()), slog.Int("src_height", src.Dy()),
		slog.Int("width", w), slog.Int("height", h),
		slog.Bool("filtered", !e.filter.IsNeutral()))
	return nil
}

// Loaded reports whether an image has been loaded.
func (e *Engine) Loaded() bool { return e.model != nil }

// Size returns the working dimensions, or 0, 0 before LoadImage.
func (e *Engine) Size() (int, int) {
	if e.model == nil {
		return 0, 0
	}
	return e.model.Size()
}

// SetTool selects the active tool and brush shape. It never touches the buffers.
func (e *Engine) SetTool(tool selection.Tool, shape mask.Shape) {
	e.tool = tool
	e.brush.Shape = shape
}

// SetBrushDiameter sets the brush diameter in pixels; values below 1 are clamped to 1.
func (e *Engine) SetBrushDiameter(diameter float32) {
	if diameter < 1 {
		diameter = 1
	}
	e.brush.Diameter = diameter
}

// SetMosaicStyle selects the style and its 1..10 strength (clamped) for subsequent edits.
func (e *Engine) SetMosaicStyle(style mosaic.Style, strength int) {
	e.setting = mosaic.Setting{Style: style, Strength: strength}.Normalize()
}

// Tool returns the active tool.
func (e *Engine) Tool() selection.Tool { return e.tool }

// Brush returns the active brush.
func (e *Engine) Brush() mask.Brush { return e.brush }

// Mosaic returns the active style and strength.
func (e *Engine) Mosaic() mosaic.Setting { return e.setting }

// State returns the gesture state.
func (e *Engine) State() selection.State { return e.machine.State() }

// Filter returns the current global filter settings.
func (e *Engine) Filter() filter.Settings { return e.filter }

// FilterLocked reports whether global filter changes are rejected.
func (e *Engine) FilterLocked() bool { return e.lock.Locked() }

// CanUndo reports whether Undo would change Display.
func (e *Engine) CanUndo() bool { return e.model != nil && e.history.UndoDepth() > 0 }

// CanRedo reports whether Redo would change Display.
func (e *Engine) CanRedo() bool { return e.model != nil && e.history.RedoDepth() > 0 }

// ApplyGlobalFilter recomputes Base from the unfiltered original with s and resets Display to
// it. Once any region edit has been made it returns ErrFilterLocked and changes nothing.
func (e *Engine) ApplyGlobalFilter(s filter.Settings) error {
	if e.model == nil {
		return ErrNoImageLoaded
	}
	if err := e.lock.Check(); err != nil {
		Logger().Warn("global filter rejected", slog.Any("settings", s))
		return err
	}
	e.filter = s
	e.rebuildBase()
	Logger().Debug("global filter applied", slog.Any("settings", s))
	return nil
}

func (e *Engine) rebuildBase() {
	s := e.filter
	e.model.Rebuild(func(dst *image.NRGBA, src image.Image) {
		filter.Apply(dst, src, s)
	})
}

// PointerDown starts a gesture at p, in Display pixel coordinates. Brush and eraser strokes
// paint immediately. It does nothing before LoadImage.
func (e *Engine) PointerDown(p image.Point) {
	if e.model == nil {
		return
	}
	e.dispatch(e.machine.Press(e.tool, p))
}

// PointerMove continues the active gesture. Every move during a stroke paints once.
func (e *Engine) PointerMove(p image.Point) {
	if e.model == nil {
		return
	}
	e.dispatch(e.machine.Move(p))
}

// PointerUp ends the active gesture. A stroke that painted, or a marquee with non-zero area
// and an active style, commits exactly one history entry.
func (e *Engine) PointerUp() {
	if e.model == nil {
		return
	}
	e.dispatch(e.machine.Release())
}

// PointerLeave ends the active gesture when the pointer leaves the surface; it behaves
// exactly like PointerUp.
func (e *Engine) PointerLeave() {
	e.PointerUp()
}

func (e *Engine) dispatch(a selection.Action) {
	switch a.Kind {
	case selection.ActionBeginStroke:
		if e.lock.Engage() {
			Logger().Debug("global filter locked")
		}
		e.strokeTool = e.tool
		e.strokeStart = e.history.Capture(e.model.Display())
		e.strokeDirty = false
		e.paint(a.Point)
	case selection.ActionPaint:
		e.paint(a.Point)
	case selection.ActionEndStroke:
		if e.strokeDirty {
			e.history.Push(e.strokeStart)
			Logger().Debug("stroke committed",
				slog.String("tool", e.strokeTool.String()), slog.Int("undo_depth", e.history.UndoDepth()))
		}
		e.endStroke()
	case selection.ActionApplyRect:
		e.applyMarquee(a.Rect)
	case selection.ActionCancelMarquee:
		Logger().Debug("empty marquee ignored", slog.Any("rect", a.Rect))
	}
}

func (e *Engine) endStroke() {
	e.strokeStart = nil
	e.strokeDirty = false
}

// paint stamps the brush once at p with the tool that started the stroke.
func (e *Engine) paint(p image.Point) {
	clip := mask.Compute(e.brush.Shape, float32(p.X), float32(p.Y), e.brush.Diameter)
	if e.strokeTool == selection.ToolEraser {
		region := raster.Clamp(clip.Bounds, e.model.Bounds())
		if region.Empty() {
			return
		}
		mask.PaintMasked(e.model.Display(), e.model.Base().NRGBA(), region, clip)
		e.strokeDirty = true
		return
	}
	if e.applyStyle(clip) {
		e.strokeDirty = true
	}
}

func (e *Engine) applyMarquee(r image.Rectangle) {
	if e.setting.Style == mosaic.StyleNone || raster.Clamp(r, e.model.Bounds()).Empty() {
		Logger().Debug("marquee left nothing to apply", slog.Any("rect", r),
			slog.String("style", e.setting.Style.String()))
		return
	}
	before := e.history.Capture(e.model.Display())
	if !e.applyStyle(mask.FullRegion(r)) {
		return
	}
	e.history.Push(before)
	if e.lock.Engage() {
		Logger().Debug("global filter locked")
	}
	Logger().Debug("marquee committed", slog.Any("rect", r),
		slog.String("style", e.setting.Style.String()), slog.Int("strength", e.setting.Strength),
		slog.Int("undo_depth", e.history.UndoDepth()))
}

// applyStyle writes the active mosaic style into Display inside clip, sourcing from Base.
// It reports whether any pixel was written.
func (e *Engine) applyStyle(clip mask.Clip) bool {
	region := raster.Clamp(clip.Bounds, e.model.Bounds())
	if region.Empty() {
		return false
	}
	base := e.model.Base().NRGBA()
	var src image.Image
	switch e.setting.Style {
	case mosaic.StylePixelate:
		patch := mosaic.Pixelate(base, region, e.setting.Strength)
		if patch == nil {
			return false
		}
		src = patch
	case mosaic.StyleGlass, mosaic.StyleBlur:
		radius := mosaic.BlurRadius(e.setting.Style, e.setting.Strength)
		src = e.blur.Get(base, e.model.Version(), radius)
	default:
		return false
	}
	mask.PaintMasked(e.model.Display(), src, region, clip)
	return true
}

// Undo restores Display to the state before the most recent committed edit. It reports
// false when there is nothing to undo, no image is loaded, or a gesture is in progress.
func (e *Engine) Undo() bool {
	return e.step("undo", e.history.Undo)
}

// Redo re-applies the most recently undone edit. See Undo.
func (e *Engine) Redo() bool {
	return e.step("redo", e.history.Redo)
}

func (e *Engine) step(name string, fn func(*raster.Buffer) (bool, error)) bool {
	if e.model == nil || e.machine.State() != selection.Idle {
		return false
	}
	ok, err := fn(e.model.Display())
	if err != nil {
		Logger().Error(name+" failed", slog.Any("error", err))
		return false
	}
	if ok {
		Logger().Debug(name, slog.Int("undo_depth", e.history.UndoDepth()),
			slog.Int("redo_depth", e.history.RedoDepth()))
	}
	return ok
}

// Reset discards every edit: Display is restored from Base, history is cleared, the filter
// lock is released, any gesture is cancelled and the tool controls return to their
// configured defaults. The global filter settings are kept.
func (e *Engine) Reset() {
	e.machine.Cancel()
	e.endStroke()
	e.restoreControls()
	e.history.Clear()
	e.lock.Release()
	if e.model == nil {
		return
	}
	e.model.Reset()
	Logger().Info("session reset")
}

func (e *Engine) restoreControls() {
	e.tool = e.defaults.tool
	e.brush = e.defaults.brush
	e.setting = e.defaults.setting
}

// ExportBitmap returns an independent copy of Display.
func (e *Engine) ExportBitmap() (*raster.Buffer, error) {
	if e.model == nil {
		return nil, ErrNoImageLoaded
	}
	return e.model.Display().Clone(), nil
}

// Base returns an independent copy of the filtered Base buffer.
func (e *Engine) Base() (*raster.Buffer, error) {
	if e.model == nil {
		return nil, ErrNoImageLoaded
	}
	return e.model.Base().Clone(), nil
}
