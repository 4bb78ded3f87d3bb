package splash

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is one action of a pointer script.
type scriptStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	ToX    int    `yaml:"toX,omitempty"`
	ToY    int    `yaml:"toY,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

type pointerSample struct {
	x, y    int
	pressed bool
}

// Script replays pointer input frame by frame for automated checks of
// interactive scenes. Call Step once per frame before Engine.Tick.
//
// A script is a YAML document with a steps list:
//
//	steps:
//	  - {action: move, x: 40, y: 40}
//	  - {action: wait, frames: 3}
//	  - {action: click, x: 40, y: 40}
//	  - {action: drag, x: 0, y: 0, toX: 100, toY: 0, frames: 5}
//	  - {action: screenshot, label: pressed}
type Script struct {
	steps   []scriptStep
	cursor  int
	wait    int
	pending []pointerSample
	done    bool

	// Painter receives the screenshot steps. Without one they are skipped.
	Painter *Painter
}

// LoadScript parses a pointer script.
func LoadScript(data []byte) (*Script, error) {
	var doc struct {
		Steps []scriptStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range doc.Steps {
		switch st.Action {
		case "move", "press", "release", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: doc.Steps}, nil
}

// Done reports whether every step has been played.
func (s *Script) Done() bool { return s.done }

// Step plays the script for one frame, feeding at most one pointer sample
// to e.
func (s *Script) Step(e *Engine) {
	if s.done {
		return
	}
	if s.flush(e) {
		return
	}
	if s.wait > 0 {
		s.wait--
		s.finish()
		return
	}
	for s.cursor < len(s.steps) {
		st := s.steps[s.cursor]
		s.cursor++
		switch st.Action {
		case "move":
			s.queue(st.X, st.Y, false)
		case "press":
			s.queue(st.X, st.Y, true)
		case "release":
			s.queue(st.X, st.Y, false)
		case "click":
			s.queue(st.X, st.Y, true)
			s.queue(st.X, st.Y, false)
		case "drag":
			frames := max(st.Frames, 2)
			for i := range frames {
				x := st.X + (st.ToX-st.X)*i/(frames-1)
				y := st.Y + (st.ToY-st.Y)*i/(frames-1)
				s.queue(x, y, true)
			}
			s.queue(st.ToX, st.ToY, false)
		case "wait":
			// This frame counts as one.
			s.wait = max(st.Frames-1, 0)
		case "screenshot":
			if s.Painter != nil {
				s.Painter.Screenshot(st.Label)
			}
			continue
		}
		break
	}
	s.flush(e)
	s.finish()
}

func (s *Script) queue(x, y int, pressed bool) {
	s.pending = append(s.pending, pointerSample{x, y, pressed})
}

func (s *Script) flush(e *Engine) bool {
	if len(s.pending) == 0 {
		return false
	}
	p := s.pending[0]
	s.pending = s.pending[1:]
	e.SetPointer(p.x, p.y, p.pressed)
	s.finish()
	return true
}

func (s *Script) finish() {
	if s.cursor >= len(s.steps) && s.wait == 0 && len(s.pending) == 0 {
		s.done = true
	}
}
