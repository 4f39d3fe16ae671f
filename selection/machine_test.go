package selection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrushStroke(t *testing.T) {
	for _, tool := range []Tool{ToolBrush, ToolEraser} {
		t.Run(tool.String(), func(t *testing.T) {
			var m Machine
			a := m.Press(tool, image.Pt(3, 4))
			assert.Equal(t, Action{Kind: ActionBeginStroke, Point: image.Pt(3, 4)}, a)
			assert.Equal(t, BrushDragging, m.State())

			for i := 0; i < 3; i++ {
				a = m.Move(image.Pt(10+i, 4))
				assert.Equal(t, Action{Kind: ActionPaint, Point: image.Pt(10+i, 4)}, a)
			}

			a = m.Release()
			assert.Equal(t, ActionEndStroke, a.Kind)
			assert.Equal(t, Idle, m.State())
		})
	}
}

func TestMarquee(t *testing.T) {
	var m Machine
	a := m.Press(ToolRectangle, image.Pt(60, 40))
	assert.Equal(t, ActionPreview, a.Kind)
	assert.Equal(t, MarqueeDragging, m.State())

	a = m.Move(image.Pt(10, 10))
	assert.Equal(t, ActionPreview, a.Kind)
	assert.Equal(t, image.Rect(10, 10, 60, 40), a.Rect)

	r, ok := m.Marquee()
	require.True(t, ok)
	assert.Equal(t, image.Rect(10, 10, 60, 40), r)

	a = m.Release()
	assert.Equal(t, Action{Kind: ActionApplyRect, Rect: image.Rect(10, 10, 60, 40)}, a)
	assert.Equal(t, Idle, m.State())
	_, ok = m.Marquee()
	assert.False(t, ok)
}

func TestZeroAreaMarqueeCancels(t *testing.T) {
	tests := []struct {
		name string
		end  image.Point
	}{
		{"click", image.Pt(5, 5)},
		{"horizontal line", image.Pt(30, 5)},
		{"vertical line", image.Pt(5, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Machine
			m.Press(ToolRectangle, image.Pt(5, 5))
			m.Move(tt.end)
			a := m.Release()
			assert.Equal(t, ActionCancelMarquee, a.Kind)
			assert.Equal(t, Idle, m.State())
		})
	}
}

func TestIdleEventsAreIgnored(t *testing.T) {
	var m Machine
	assert.Equal(t, Action{}, m.Move(image.Pt(1, 1)))
	assert.Equal(t, Action{}, m.Release())
	assert.Equal(t, Idle, m.State())
}

func TestPressWhileDraggingIgnored(t *testing.T) {
	var m Machine
	m.Press(ToolBrush, image.Pt(1, 1))
	assert.Equal(t, Action{}, m.Press(ToolRectangle, image.Pt(2, 2)))
	assert.Equal(t, BrushDragging, m.State())

	m.Cancel()
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, Action{}, m.Release())
}

func TestParseTool(t *testing.T) {
	for name, want := range map[string]Tool{
		"brush": ToolBrush, "mosaic": ToolBrush, "rect": ToolRectangle,
		"Rectangle": ToolRectangle, "marquee": ToolRectangle, "ERASER": ToolEraser,
	} {
		got, err := ParseTool(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
	assert.Equal(t, "marquee-dragging", MarqueeDragging.String())
}
