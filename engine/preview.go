package engine

import (
	"image"

	"github.com/fogleman/gg"
)

// Preview returns a copy of Display for on-screen presentation. While a marquee is being
// dragged the rectangle is outlined with a dashed line; the outline never reaches Display.
func (e *Engine) Preview() (image.Image, error) {
	if e.model == nil {
		return nil, ErrNoImageLoaded
	}
	view := e.model.Display().Clone().NRGBA()
	r, ok := e.machine.Marquee()
	if !ok {
		return view, nil
	}

	dc := gg.NewContextForImage(view)
	dc.SetHexColor(e.cfg.PreviewColor)
	dc.SetLineWidth(1)
	if e.cfg.PreviewDash > 0 {
		dc.SetDash(e.cfg.PreviewDash, e.cfg.PreviewDash)
	}
	// Half-pixel inset keeps the 1px line on the rectangle's edge pixels.
	dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5,
		float64(max(r.Dx()-1, 0)), float64(max(r.Dy()-1, 0)))
	dc.Stroke()
	return dc.Image(), nil
}
