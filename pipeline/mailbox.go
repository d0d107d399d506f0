package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrMailboxClosed is returned by Send after Close, and by Recv once a
// closed mailbox has been drained.
var ErrMailboxClosed = errors.New("pipeline: mailbox closed")

// Mailbox is an unbounded FIFO queue with a non-blocking Send and a
// blocking Recv. It is safe for concurrent use.
type Mailbox[T any] struct {
	mu     sync.Mutex
	queue  []T
	closed bool

	// notify holds at most one wakeup for a blocked receiver.
	notify chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Send appends v to the queue. It never blocks.
func (m *Mailbox[T]) Send(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, v)
	m.wake()
	return nil
}

// Recv removes and returns the oldest value, blocking until one is
// available. Values sent before Close are still delivered.
func (m *Mailbox[T]) Recv(ctx context.Context) (T, error) {
	for {
		if v, ok, err := m.pop(); ok || err != nil {
			return v, err
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryRecv returns the oldest value without blocking.
func (m *Mailbox[T]) TryRecv() (T, bool) {
	v, ok, _ := m.pop()
	return v, ok
}

// Len returns the number of queued values.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close stops further sends and wakes blocked receivers. It is idempotent.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.notify)
	}
}

func (m *Mailbox[T]) pop() (v T, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		if m.closed {
			return v, false, ErrMailboxClosed
		}
		return v, false, nil
	}
	v = m.queue[0]
	var zero T
	m.queue[0] = zero
	m.queue = m.queue[1:]
	if len(m.queue) > 0 {
		m.wake()
	}
	return v, true, nil
}

// wake must be called with mu held.
func (m *Mailbox[T]) wake() {
	if m.closed {
		return
	}
	select {
	case m.notify <- struct{}{}:
	default:
	}
}
