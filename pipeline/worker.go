// Package pipeline runs scene builds on a dedicated goroutine.
//
// The control loop talks to the worker through a Proxy. Requests and
// responses travel over two unbounded FIFO mailboxes, so sends never
// block and replies arrive in the order builds were requested. The worker
// owns the scene exclusively; the only way to change it is a message.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/document"
)

// ExitFunc terminates the process after a build failure.
type ExitFunc func(code int)

// Option configures a worker at Spawn.
type Option func(*workerOptions)

type workerOptions struct {
	clock clock.Clock
	exit  ExitFunc
	diag  io.Writer
}

func defaultWorkerOptions() workerOptions {
	return workerOptions{
		clock: clock.New(),
		exit:  os.Exit,
		diag:  os.Stderr,
	}
}

// WithClock sets the clock builds are timed with.
func WithClock(c clock.Clock) Option {
	return func(o *workerOptions) {
		o.clock = c
	}
}

// WithExit sets the fatal exit policy. The default is os.Exit.
// If fn returns, the worker stops as if its request mailbox was closed.
func WithExit(fn ExitFunc) Option {
	return func(o *workerOptions) {
		o.exit = fn
	}
}

// WithDiagnostics sets where the scene is dumped after a build failure.
// The default is os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(o *workerOptions) {
		o.diag = w
	}
}

type worker struct {
	scene     *document.Scene
	builder   build.Builder
	requests  *Mailbox[Request]
	responses *Mailbox[Response]
	workerOptions
}

func (w *worker) run() {
	defer w.responses.Close()
	defer w.requests.Close()

	log := sceneview.Logger()
	log.Info("scene worker started", "scene", w.scene.Summary())
	defer log.Info("scene worker stopped")

	for {
		req, err := w.requests.Recv(context.Background())
		if err != nil {
			return
		}
		if !w.handle(req) {
			return
		}
	}
}

// handle processes one request. It reports false when the worker must stop.
func (w *worker) handle(req Request) bool {
	log := sceneview.Logger()

	switch r := req.(type) {
	case SetViewport:
		log.Debug("viewport", "width", r.Size.X, "height", r.Size.Y)
		w.scene.SetViewport(r.Size.X, r.Size.Y)

	case SetScene:
		if r.Scene == nil {
			log.Warn("ignoring nil scene")
			return true
		}
		r.Scene.ViewBox = w.scene.ViewBox
		w.scene = r.Scene
		log.Info("scene replaced", "scene", w.scene.Summary())

	case Build:
		start := w.clock.Now()
		art, err := build.Safe(context.Background(), w.builder, w.scene, r.Options)
		if err != nil {
			w.fail(err)
			return false
		}
		art.BuildTime = w.clock.Since(start)
		log.Debug("build finished", "transform", r.Options.Kind, "elapsed", art.BuildTime)
		if err := w.responses.Send(Render{Artifact: art}); err != nil {
			return false
		}

	default:
		log.Debug("ignoring unknown request", "type", fmt.Sprintf("%T", req))
	}
	return true
}

// fail reports a build failure and applies the exit policy.
func (w *worker) fail(err error) {
	log := sceneview.Logger()
	log.Error("scene build failed", "err", err)

	fmt.Fprintf(w.diag, "scene build failed: %v\n", err)
	var pe *build.PanicError
	if errors.As(err, &pe) {
		fmt.Fprintf(w.diag, "%s\n", pe.Stack)
	}
	if dumpErr := w.scene.Dump(w.diag); dumpErr != nil {
		log.Error("scene dump failed", "err", dumpErr)
	}
	w.exit(1)
}

// Spawn starts a worker owning doc and returns the proxy that controls it.
// The initial view box is viewport.
func Spawn(doc *document.Scene, b build.Builder, viewport image.Point, opts ...Option) *Proxy {
	o := defaultWorkerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	doc.SetViewport(viewport.X, viewport.Y)
	w := &worker{
		scene:         doc,
		builder:       b,
		requests:      NewMailbox[Request](),
		responses:     NewMailbox[Response](),
		workerOptions: o,
	}
	p := &Proxy{
		requests:  w.requests,
		responses: w.responses,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		w.run()
	}()
	return p
}
