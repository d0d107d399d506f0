// Package input provides the viewer's event sources: a queue that other
// goroutines push into, a scripted replay read from TOML and a watcher
// that reloads the scene file when it changes on disk.
package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/sceneview/document"
	"github.com/gogpu/sceneview/frame"
	"github.com/gogpu/sceneview/pipeline"
)

// ErrClosed is returned once a queue has been closed and drained.
var ErrClosed = errors.New("input: queue closed")

// Sink accepts events from producers.
type Sink interface {
	Push(ev frame.Event) error
}

// Queue is an unbounded event queue. Any goroutine may Push; the frame
// loop consumes it as a frame.InputSource.
type Queue struct {
	mb *pipeline.Mailbox[frame.Event]
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{mb: pipeline.NewMailbox[frame.Event]()}
}

// Push appends ev. It never blocks.
func (q *Queue) Push(ev frame.Event) error {
	if err := q.mb.Send(ev); err != nil {
		return ErrClosed
	}
	return nil
}

// Wait blocks until an event is queued.
func (q *Queue) Wait(ctx context.Context) (frame.Event, error) {
	ev, err := q.mb.Recv(ctx)
	if errors.Is(err, pipeline.ErrMailboxClosed) {
		return frame.Event{}, ErrClosed
	}
	return ev, err
}

// Poll drains the queue without blocking.
func (q *Queue) Poll() []frame.Event {
	var evs []frame.Event
	for {
		ev, ok := q.mb.TryRecv()
		if !ok {
			return evs
		}
		evs = append(evs, ev)
	}
}

// Close stops further pushes. Queued events can still be consumed.
func (q *Queue) Close() {
	q.mb.Close()
}

// Reload loads the scene at path and pushes it to sink as a
// scene-loaded event.
func Reload(path string, sink Sink) error {
	doc, err := document.LoadFile(path)
	if err != nil {
		return err
	}
	if err := sink.Push(frame.Event{Kind: frame.EventSceneLoaded, Scene: doc}); err != nil {
		return fmt.Errorf("input: reload %s: %w", path, err)
	}
	return nil
}
