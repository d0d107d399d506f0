// Package frame drives the viewer one frame at a time.
//
// Each frame the loop requests builds from the scene worker, collects
// input, waits for the next finished build and presents it with the UI
// on top. Builds are requested before the previous one is presented, so
// at most two builds are ever in flight.
package frame

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/camera"
	"github.com/gogpu/sceneview/document"
)

// Proxy is the loop's view of the scene worker.
type Proxy interface {
	SendViewport(size image.Point) error
	SendScene(doc *document.Scene) error
	SendBuild(opts build.Options) error
	RecvArtifact(ctx context.Context) (*build.Artifact, error)
	Close()
}

// HitTester is the UI. Update lays the widgets out for a viewport of
// the given size, lets them consume ev and updates t accordingly.
type HitTester interface {
	Update(viewport image.Point, t *Toggles, ev *UIEvent)
}

// Frame is what gets presented.
type Frame struct {
	Number   uint64
	Artifact *build.Artifact
	Toggles  Toggles
	FreeLook bool
}

// Presenter shows finished frames.
type Presenter interface {
	Resize(size image.Point)
	Present(ctx context.Context, f Frame) error
}

// Config holds the loop's startup settings.
type Config struct {
	Viewport    image.Point
	ScaleFactor float32
	ThreeD      bool
	Wait        WaitPolicy
}

// Loop is the frame control loop. It is not safe for concurrent use.
type Loop struct {
	proxy     Proxy
	input     InputSource
	ui        HitTester
	presenter Presenter
	wait      WaitPolicy
	state     State
}

// NewLoop creates a loop. The proxy is closed when Run returns.
func NewLoop(cfg Config, proxy Proxy, input InputSource, ui HitTester, presenter Presenter) *Loop {
	if cfg.ScaleFactor <= 0 {
		cfg.ScaleFactor = 1
	}
	return &Loop{
		proxy:     proxy,
		input:     input,
		ui:        ui,
		presenter: presenter,
		wait:      cfg.Wait,
		state: State{
			Camera:      camera.New(),
			Toggles:     Toggles{ThreeD: cfg.ThreeD},
			Viewport:    cfg.Viewport,
			ScaleFactor: cfg.ScaleFactor,
		},
	}
}

// State returns a copy of the loop state.
func (l *Loop) State() State {
	return l.state
}

// Run runs frames until a quit event. It returns nil on quit, the
// context error on cancellation and a wrapped transport error if the
// scene worker went away.
func (l *Loop) Run(ctx context.Context) error {
	defer l.proxy.Close()

	log := sceneview.Logger()
	log.Info("frame loop started", "viewport", l.state.Viewport, "3d", l.state.Toggles.ThreeD)

	for !l.state.Exit {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Step(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}

	log.Info("frame loop finished", "frames", l.state.Frame)
	return nil
}

// Step runs a single frame.
func (l *Loop) Step(ctx context.Context) error {
	if err := l.requestBuilds(); err != nil {
		return fmt.Errorf("frame %d: %w", l.state.Frame, err)
	}

	ev, err := l.collectInput(ctx)
	if err != nil {
		return fmt.Errorf("frame %d: %w", l.state.Frame, err)
	}

	art, err := l.proxy.RecvArtifact(ctx)
	if err != nil {
		return fmt.Errorf("frame %d: %w", l.state.Frame, err)
	}

	if err := l.present(ctx, art, ev); err != nil {
		return fmt.Errorf("frame %d: present: %w", l.state.Frame, err)
	}
	l.state.Frame++
	return nil
}

// Options assembles the build options for the current state.
func (l *Loop) Options() build.Options {
	s := &l.state
	in := build.Inputs{
		ThreeD:        s.Toggles.ThreeD,
		StemDarkening: s.Toggles.StemDarkening,
		Viewport:      s.Viewport,
		ScaleFactor:   s.ScaleFactor,
	}
	if in.ThreeD {
		in.Projection = s.Camera.Projection(s.Aspect())
	}
	return build.Assemble(in)
}

// requestBuilds keeps the pipeline full: two builds on the first frame,
// one on every frame after.
func (l *Loop) requestBuilds() error {
	if l.state.Toggles.ThreeD {
		l.state.Camera.Step()
	}
	opts := l.Options()

	count := 1
	if l.state.Frame == 0 {
		count = 2
	}
	for range count {
		if err := l.proxy.SendBuild(opts); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) collectInput(ctx context.Context) (UIEvent, error) {
	var events []Event
	if l.wait.ShouldWait(l.state.Frame, l.state.Camera.Moving(), l.state.HandledLastFrame) {
		ev, err := l.input.Wait(ctx)
		if err != nil {
			return UIEvent{}, err
		}
		events = append(events, ev)
	}
	events = append(events, l.input.Poll()...)

	var ui UIEvent
	for _, ev := range events {
		if err := l.handle(ev, &ui); err != nil {
			return UIEvent{}, err
		}
	}
	return ui, nil
}

func (l *Loop) handle(ev Event, ui *UIEvent) error {
	s := &l.state
	switch ev.Kind {
	case EventQuit:
		s.Exit = true

	case EventKeyDown:
		if ev.Key == KeyEscape {
			s.Exit = true
		} else if d, ok := direction(ev.Key); ok {
			s.Camera.Press(d)
		}

	case EventKeyUp:
		if d, ok := direction(ev.Key); ok {
			s.Camera.Release(d)
		}

	case EventResize:
		s.Viewport = ev.Size
		if err := l.proxy.SendViewport(ev.Size); err != nil {
			return err
		}
		l.presenter.Resize(ev.Size)

	case EventPointerDown:
		*ui = PointerDown(image.Pt(
			int(float32(ev.Point.X)*s.ScaleFactor),
			int(float32(ev.Point.Y)*s.ScaleFactor),
		))

	case EventPointerMotion:
		if s.FreeLook {
			s.Camera.Look(ev.DX, ev.DY)
		}

	case EventSceneLoaded:
		if ev.Scene == nil {
			return nil
		}
		sceneview.Logger().Info("scene loaded", "scene", ev.Scene.Summary())
		if err := l.proxy.SendScene(ev.Scene); err != nil {
			return err
		}

	default:
		return nil
	}
	sceneview.Logger().Debug("event", "kind", ev.Kind, "frame", s.Frame)
	return nil
}

func (l *Loop) present(ctx context.Context, art *build.Artifact, ev UIEvent) error {
	s := &l.state

	hadEvent := !ev.IsNone()
	l.ui.Update(s.Viewport, &s.Toggles, &ev)
	s.HandledLastFrame = hadEvent && ev.IsNone()

	if !ev.IsNone() {
		s.FreeLook = !s.FreeLook
		sceneview.Logger().Debug("free look", "enabled", s.FreeLook)
	}

	return l.presenter.Present(ctx, Frame{
		Number:   s.Frame,
		Artifact: art,
		Toggles:  s.Toggles,
		FreeLook: s.FreeLook,
	})
}
