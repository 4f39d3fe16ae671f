// Package selection - pointer gesture state machine for brush strokes and marquee selections.
package selection

import (
	"image"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/raster"
)

// Tool is the active editing tool. Exactly one is active at a time.
type Tool int

const (
	// ToolBrush paints the active mosaic style through the brush shape.
	ToolBrush Tool = iota
	// ToolRectangle drags an axis-aligned marquee and applies the style on release.
	ToolRectangle
	// ToolEraser paints Base back through the brush shape.
	ToolEraser
)

var toolNames = map[Tool]string{
	ToolBrush:     "brush",
	ToolRectangle: "rect",
	ToolEraser:    "eraser",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseTool maps a case-insensitive name to a Tool; "rectangle" and "mosaic" are aliases.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(name) {
	case "rectangle", "marquee":
		return ToolRectangle, nil
	case "mosaic":
		return ToolBrush, nil
	}
	for t, n := range toolNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return ToolBrush, errors.Errorf("selection: unknown tool %q", name)
}

// State is the gesture state.
type State int

const (
	Idle State = iota
	BrushDragging
	MarqueeDragging
)

func (s State) String() string {
	switch s {
	case BrushDragging:
		return "brush-dragging"
	case MarqueeDragging:
		return "marquee-dragging"
	default:
		return "idle"
	}
}

// ActionKind tells the caller what a transition requires.
type ActionKind int

const (
	// ActionNone requires nothing.
	ActionNone ActionKind = iota
	// ActionBeginStroke starts a stroke; Point carries the first paint position.
	ActionBeginStroke
	// ActionPaint paints one brush stamp at Point.
	ActionPaint
	// ActionEndStroke ends the stroke; the caller commits one history entry for it.
	ActionEndStroke
	// ActionPreview redraws the marquee preview for Rect.
	ActionPreview
	// ActionApplyRect applies the style to Rect and commits one history entry.
	ActionApplyRect
	// ActionCancelMarquee drops a zero-area marquee without committing.
	ActionCancelMarquee
)

// Action is the outcome of a transition.
type Action struct {
	Kind  ActionKind
	Point image.Point
	Rect  image.Rectangle
}

// Machine tracks one pointer gesture at a time.
type Machine struct {
	state State
	start image.Point
	end   image.Point
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Marquee returns the normalized in-progress marquee; ok is false when not dragging one.
func (m *Machine) Marquee() (r image.Rectangle, ok bool) {
	if m.state != MarqueeDragging {
		return image.Rectangle{}, false
	}
	return raster.Normalize(m.start, m.end), true
}

// Press starts a gesture for tool at p. A press while a gesture is active is ignored.
func (m *Machine) Press(tool Tool, p image.Point) Action {
	if m.state != Idle {
		return Action{}
	}
	switch tool {
	case ToolRectangle:
		m.state = MarqueeDragging
		m.start, m.end = p, p
		return Action{Kind: ActionPreview, Rect: raster.Normalize(p, p)}
	case ToolBrush, ToolEraser:
		m.state = BrushDragging
		return Action{Kind: ActionBeginStroke, Point: p}
	default:
		return Action{}
	}
}

// Move advances the active gesture. Every move during a stroke paints.
func (m *Machine) Move(p image.Point) Action {
	switch m.state {
	case BrushDragging:
		return Action{Kind: ActionPaint, Point: p}
	case MarqueeDragging:
		m.end = p
		return Action{Kind: ActionPreview, Rect: raster.Normalize(m.start, m.end)}
	default:
		return Action{}
	}
}

// Release ends the active gesture and always returns the machine to Idle.
func (m *Machine) Release() Action {
	state := m.state
	m.state = Idle
	switch state {
	case BrushDragging:
		return Action{Kind: ActionEndStroke}
	case MarqueeDragging:
		r := raster.Normalize(m.start, m.end)
		if r.Empty() {
			return Action{Kind: ActionCancelMarquee, Rect: r}
		}
		return Action{Kind: ActionApplyRect, Rect: r}
	default:
		return Action{}
	}
}

// Cancel drops any gesture without producing an action.
func (m *Machine) Cancel() {
	m.state = Idle
}
