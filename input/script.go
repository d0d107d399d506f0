package input

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/gogpu/sceneview/document"
	"github.com/gogpu/sceneview/frame"
	"github.com/pelletier/go-toml/v2"
)

// ErrScript is returned for a malformed replay script.
var ErrScript = errors.New("input: invalid script")

// Script replays recorded input, one step per frame. When the steps
// run out it reports a quit.
//
// A script is a TOML document:
//
//	[[step]]
//	events = [{ kind = "key-down", key = "w" }]
//
//	[[step]]
//	idle = 30
//	events = [{ kind = "key-up", key = "w" }, { kind = "quit" }]
//
// idle delays a step by that many frames. Event kinds are quit, key-down,
// key-up (key), resize (width, height), pointer-down (x, y),
// pointer-motion (dx, dy) and open (path).
type Script struct {
	steps []step
	next  int
	idle  int
	held  []frame.Event
}

type step struct {
	idle   int
	events []frame.Event
}

type scriptFile struct {
	Steps []scriptStep `toml:"step"`
}

type scriptStep struct {
	Idle   int           `toml:"idle"`
	Events []scriptEvent `toml:"events"`
}

type scriptEvent struct {
	Kind   string  `toml:"kind"`
	Key    string  `toml:"key"`
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	X      int     `toml:"x"`
	Y      int     `toml:"y"`
	DX     float32 `toml:"dx"`
	DY     float32 `toml:"dy"`
	Path   string  `toml:"path"`
}

// LoadScript reads a replay script from a file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: open script: %w", err)
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript reads a replay script. Scenes named by open events are
// loaded here, so a bad path fails early.
func ParseScript(r io.Reader) (*Script, error) {
	var file scriptFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}

	s := &Script{steps: make([]step, 0, len(file.Steps))}
	for i, fs := range file.Steps {
		if fs.Idle < 0 {
			return nil, fmt.Errorf("%w: step %d: negative idle", ErrScript, i)
		}
		st := step{idle: fs.Idle}
		for j, fe := range fs.Events {
			ev, err := fe.event()
			if err != nil {
				return nil, fmt.Errorf("%w: step %d event %d: %w", ErrScript, i, j, err)
			}
			st.events = append(st.events, ev)
		}
		s.steps = append(s.steps, st)
	}
	if len(s.steps) > 0 {
		s.idle = s.steps[0].idle
	}
	return s, nil
}

func (e scriptEvent) event() (frame.Event, error) {
	switch e.Kind {
	case "quit":
		return frame.Event{Kind: frame.EventQuit}, nil
	case "key-down", "key-up":
		key := frame.ParseKey(e.Key)
		if key == frame.KeyUnknown {
			return frame.Event{}, fmt.Errorf("unknown key %q", e.Key)
		}
		kind := frame.EventKeyDown
		if e.Kind == "key-up" {
			kind = frame.EventKeyUp
		}
		return frame.Event{Kind: kind, Key: key}, nil
	case "resize":
		if e.Width <= 0 || e.Height <= 0 {
			return frame.Event{}, fmt.Errorf("invalid size %dx%d", e.Width, e.Height)
		}
		return frame.Event{Kind: frame.EventResize, Size: image.Pt(e.Width, e.Height)}, nil
	case "pointer-down":
		return frame.Event{Kind: frame.EventPointerDown, Point: image.Pt(e.X, e.Y)}, nil
	case "pointer-motion":
		return frame.Event{Kind: frame.EventPointerMotion, DX: e.DX, DY: e.DY}, nil
	case "open":
		doc, err := document.LoadFile(e.Path)
		if err != nil {
			return frame.Event{}, err
		}
		return frame.Event{Kind: frame.EventSceneLoaded, Scene: doc}, nil
	default:
		return frame.Event{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// Len returns the number of steps not yet delivered.
func (s *Script) Len() int {
	return len(s.steps) - s.next
}

// Wait skips any idle frames and returns the first event of the next step.
func (s *Script) Wait(ctx context.Context) (frame.Event, error) {
	if err := ctx.Err(); err != nil {
		return frame.Event{}, err
	}
	for len(s.held) == 0 {
		s.idle = 0
		evs := s.Poll()
		if len(evs) == 0 {
			continue
		}
		s.held = evs
	}
	ev := s.held[0]
	s.held = s.held[1:]
	return ev, nil
}

// Poll returns the events due this frame.
func (s *Script) Poll() []frame.Event {
	if len(s.held) > 0 {
		evs := s.held
		s.held = nil
		return evs
	}
	if s.next >= len(s.steps) {
		return []frame.Event{{Kind: frame.EventQuit}}
	}
	if s.idle > 0 {
		s.idle--
		return nil
	}

	evs := s.steps[s.next].events
	s.next++
	if s.next < len(s.steps) {
		s.idle = s.steps[s.next].idle
	}
	return evs
}

// Join reads pushed events from q ahead of the script's steps, so
// asynchronous producers keep working during a replay.
func Join(q *Queue, s *Script) frame.InputSource {
	return joined{q: q, s: s}
}

type joined struct {
	q *Queue
	s *Script
}

func (j joined) Wait(ctx context.Context) (frame.Event, error) {
	if ev, ok := j.q.mb.TryRecv(); ok {
		return ev, nil
	}
	return j.s.Wait(ctx)
}

func (j joined) Poll() []frame.Event {
	return append(j.q.Poll(), j.s.Poll()...)
}
