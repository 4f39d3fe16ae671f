// Package script - replayable YAML editing sessions.
//
// A script is a list of steps, each holding exactly one action:
//
//	steps:
//	  - tool: brush          # brush | rect | eraser
//	    shape: heart         # optional: circle | square | heart
//	    diameter: 30         # optional
//	  - style: pixelate      # none | pixelate | glass | blur
//	    strength: 5          # optional
//	  - filter: {brightness: 110, contrast: 100, saturation: 100}
//	  - stroke: [[10,10],[20,20],[30,30]]
//	  - marquee: [[10,10],[60,40]]
//	  - undo: 1
//	  - redo: 1
//	  - reset: true
package script

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-mosaic/engine"
	"github.com/nvr-ai/go-mosaic/filter"
	"github.com/nvr-ai/go-mosaic/mask"
	"github.com/nvr-ai/go-mosaic/mosaic"
	"github.com/nvr-ai/go-mosaic/selection"
)

// Point is an [x, y] pair in Display pixel coordinates.
type Point [2]int

func (p Point) pt() image.Point { return image.Pt(p[0], p[1]) }

// Step is one scripted action.
type Step struct {
	Tool     string  `yaml:"tool,omitempty"`
	Shape    string  `yaml:"shape,omitempty"`
	Diameter float32 `yaml:"diameter,omitempty"`

	Style    string `yaml:"style,omitempty"`
	Strength int    `yaml:"strength,omitempty"`

	Filter *filter.Settings `yaml:"filter,omitempty"`

	// Stroke is a raw gesture with the active tool: press at the first point, a move to every
	// following point, then release.
	Stroke []Point `yaml:"stroke,omitempty"`
	// Marquee drags a rectangle selection between two corners regardless of the active tool.
	Marquee []Point `yaml:"marquee,omitempty"`

	Undo  int  `yaml:"undo,omitempty"`
	Redo  int  `yaml:"redo,omitempty"`
	Reset bool `yaml:"reset,omitempty"`
}

// Kind names the action the step holds.
func (s Step) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return "invalid"
	}
	return kinds[0]
}

func (s Step) kinds() []string {
	var kinds []string
	add := func(ok bool, name string) {
		if ok {
			kinds = append(kinds, name)
		}
	}
	add(s.Tool != "", "tool")
	add(s.Style != "", "style")
	add(s.Filter != nil, "filter")
	add(len(s.Stroke) > 0, "stroke")
	add(len(s.Marquee) > 0, "marquee")
	add(s.Undo > 0, "undo")
	add(s.Redo > 0, "redo")
	add(s.Reset, "reset")
	return kinds
}

func (s Step) validate() error {
	kinds := s.kinds()
	switch {
	case len(kinds) == 0:
		return errors.New("step has no action")
	case len(kinds) > 1:
		return errors.Errorf("step mixes actions %v", kinds)
	}
	if (s.Shape != "" || s.Diameter != 0) && s.Tool == "" {
		return errors.New("shape and diameter belong to a tool step")
	}
	if s.Strength != 0 && s.Style == "" {
		return errors.New("strength belongs to a style step")
	}
	if s.Tool != "" {
		if _, err := selection.ParseTool(s.Tool); err != nil {
			return err
		}
		if s.Shape != "" {
			if _, err := mask.ParseShape(s.Shape); err != nil {
				return err
			}
		}
	}
	if s.Style != "" {
		if _, err := mosaic.ParseStyle(s.Style); err != nil {
			return err
		}
	}
	if len(s.Marquee) > 0 && len(s.Marquee) != 2 {
		return errors.Errorf("marquee needs exactly 2 corners, got %d", len(s.Marquee))
	}
	return nil
}

// Script is a parsed session.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Parse decodes and validates a YAML script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, errors.Wrap(err, "script: parse")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, &StepError{Index: i, Kind: step.Kind(), Err: err}
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "script: open %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// StepError reports the step that failed.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("script: step %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Run applies the steps to e in order and stops at the first failing step.
//
// Arguments:
//   - e: An engine with an image loaded.
//   - s: The script.
//
// Returns:
//   - error: A *StepError wrapping the cause, e.g. engine.ErrFilterLocked for a filter step
//     after an edit.
func Run(e *engine.Engine, s *Script) error {
	if !e.Loaded() {
		return engine.ErrNoImageLoaded
	}
	for i, step := range s.Steps {
		if err := apply(e, step); err != nil {
			return &StepError{Index: i, Kind: step.Kind(), Err: err}
		}
	}
	return nil
}

func apply(e *engine.Engine, s Step) error {
	if err := s.validate(); err != nil {
		return err
	}
	switch s.Kind() {
	case "tool":
		tool, _ := selection.ParseTool(s.Tool)
		shape := e.Brush().Shape
		if s.Shape != "" {
			shape, _ = mask.ParseShape(s.Shape)
		}
		e.SetTool(tool, shape)
		if s.Diameter != 0 {
			e.SetBrushDiameter(s.Diameter)
		}
	case "style":
		style, _ := mosaic.ParseStyle(s.Style)
		strength := s.Strength
		if strength == 0 {
			strength = e.Mosaic().Strength
		}
		e.SetMosaicStyle(style, strength)
	case "filter":
		return e.ApplyGlobalFilter(*s.Filter)
	case "stroke":
		gesture(e, s.Stroke)
	case "marquee":
		tool, shape := e.Tool(), e.Brush().Shape
		e.SetTool(selection.ToolRectangle, shape)
		gesture(e, s.Marquee)
		e.SetTool(tool, shape)
	case "undo":
		repeat(s.Undo, e.Undo)
	case "redo":
		repeat(s.Redo, e.Redo)
	case "reset":
		e.Reset()
	}
	return nil
}

func gesture(e *engine.Engine, pts []Point) {
	e.PointerDown(pts[0].pt())
	for _, p := range pts[1:] {
		e.PointerMove(p.pt())
	}
	e.PointerUp()
}

// repeat calls fn up to n times, stopping early once it reports false.
func repeat(n int, fn func() bool) {
	for i := 0; i < n; i++ {
		if !fn() {
			return
		}
	}
}
