package script

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-mosaic/engine"
	"github.com/nvr-ai/go-mosaic/filter"
	"github.com/nvr-ai/go-mosaic/mask"
	"github.com/nvr-ai/go-mosaic/mosaic"
	"github.com/nvr-ai/go-mosaic/selection"
)

func newLoaded(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(e.Close)

	img := image.NewNRGBA(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 3), G: uint8(y * 3), B: uint8(x ^ y), A: 255})
		}
	}
	require.NoError(t, e.LoadImage(img))
	return e
}

func mustParse(t *testing.T, body string) *Script {
	t.Helper()
	s, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	s := mustParse(t, `
steps:
  - tool: brush
    shape: heart
    diameter: 30
  - style: pixelate
    strength: 5
  - filter: {brightness: 110, contrast: 100, saturation: 100}
  - stroke: [[10,10],[20,20],[30,30]]
  - marquee: [[10,10],[60,40]]
  - undo: 1
  - redo: 1
  - reset: true
`)
	require.Len(t, s.Steps, 8)
	kinds := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		kinds[i] = step.Kind()
	}
	assert.Equal(t, []string{"tool", "style", "filter", "stroke", "marquee", "undo", "redo", "reset"}, kinds)
	assert.Equal(t, []Point{{10, 10}, {20, 20}, {30, 30}}, s.Steps[3].Stroke)
	assert.Equal(t, float32(110), s.Steps[2].Filter.Brightness)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty step", "steps:\n  - {}\n", "no action"},
		{"mixed", "steps:\n  - {undo: 1, reset: true}\n", "mixes actions"},
		{"unknown tool", "steps:\n  - tool: lasso\n", "lasso"},
		{"unknown style", "steps:\n  - style: swirl\n", "swirl"},
		{"orphan strength", "steps:\n  - {strength: 3, undo: 1}\n", "strength"},
		{"marquee corners", "steps:\n  - marquee: [[1,1],[2,2],[3,3]]\n", "2 corners"},
		{"bad point", "steps:\n  - stroke: [[1,2,3]]\n", "parse"},
		{"unknown field", "steps:\n  - brush: big\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	s := mustParse(t, "")
	assert.Empty(t, s.Steps)
}

func TestRunAppliesSteps(t *testing.T) {
	e := newLoaded(t)
	s := mustParse(t, `
steps:
  - tool: eraser
    shape: square
    diameter: 12
  - style: glass
    strength: 3
  - tool: brush
  - marquee: [[40,40],[10,10]]
  - stroke: [[60,60],[70,60]]
  - undo: 5
  - redo: 1
`)
	require.NoError(t, Run(e, s))

	assert.Equal(t, selection.ToolBrush, e.Tool(), "marquee restores the previous tool")
	assert.Equal(t, mask.Brush{Shape: mask.Square, Diameter: 12}, e.Brush())
	assert.Equal(t, mosaic.Setting{Style: mosaic.StyleGlass, Strength: 3}, e.Mosaic())
	assert.True(t, e.CanUndo(), "redo brought the marquee back")
	assert.True(t, e.CanRedo(), "the stroke is still undone")
	assert.True(t, e.FilterLocked())
}

func TestRunReportsFilterLocked(t *testing.T) {
	e := newLoaded(t)
	s := mustParse(t, `
steps:
  - filter: {brightness: 90, contrast: 100, saturation: 100}
  - style: pixelate
  - stroke: [[20,20]]
  - filter: {brightness: 120, contrast: 100, saturation: 100}
  - reset: true
`)
	err := Run(e, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrFilterLocked))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 3, stepErr.Index)
	assert.Equal(t, "filter", stepErr.Kind)
	assert.True(t, e.CanUndo(), "steps after the failure are not run")
}

func TestRunRequiresImage(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)
	defer e.Close()
	assert.ErrorIs(t, Run(e, &Script{}), engine.ErrNoImageLoaded)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - reset: true\n"), 0o600))
	s, err := Load(path)
	require.NoError(t, err)
	require.Len(t, s.Steps, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPartialFilterStepKeepsOtherSettingsNeutral(t *testing.T) {
	s := mustParse(t, "steps:\n  - filter: {grayscale: 100}\n")
	require.NotNil(t, s.Steps[0].Filter)
	assert.Equal(t, filter.Settings{Brightness: 100, Contrast: 100, Saturation: 100, Grayscale: 100}, *s.Steps[0].Filter)

	e := newLoaded(t)
	require.NoError(t, Run(e, s))
	assert.Equal(t, *s.Steps[0].Filter, e.Filter())

	base, err := e.Base()
	require.NoError(t, err)
	img := base.NRGBA()
	dark, light := img.NRGBAAt(1, 1), img.NRGBAAt(70, 70)
	assert.Equal(t, dark.R, dark.G)
	assert.Equal(t, light.R, light.B)
	assert.Less(t, dark.R, light.R, "luminance survives the grayscale pass")
}
