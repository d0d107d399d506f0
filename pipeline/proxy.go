package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/document"
)

// ErrWorkerStopped is returned once the scene worker has terminated.
var ErrWorkerStopped = errors.New("pipeline: scene worker stopped")

// Proxy is the control loop's handle on the scene worker. It holds no
// scene data. A Proxy must not be copied.
type Proxy struct {
	requests  *Mailbox[Request]
	responses *Mailbox[Response]
	done      chan struct{}
}

// SendViewport asks the worker to resize the scene view box.
func (p *Proxy) SendViewport(size image.Point) error {
	return p.send(SetViewport{Size: size})
}

// SendScene hands doc to the worker, replacing its scene.
// The caller must not touch doc afterwards.
func (p *Proxy) SendScene(doc *document.Scene) error {
	return p.send(SetScene{Scene: doc})
}

// SendBuild enqueues a build. It does not wait for the build to run.
func (p *Proxy) SendBuild(opts build.Options) error {
	return p.send(Build{Options: opts})
}

func (p *Proxy) send(req Request) error {
	if err := p.requests.Send(req); err != nil {
		return fmt.Errorf("%w: %T", ErrWorkerStopped, req)
	}
	return nil
}

// RecvArtifact blocks until the next build finishes and returns its
// artifact. Artifacts arrive in the order the builds were sent.
func (p *Proxy) RecvArtifact(ctx context.Context) (*build.Artifact, error) {
	for {
		resp, err := p.responses.Recv(ctx)
		switch {
		case errors.Is(err, ErrMailboxClosed):
			return nil, ErrWorkerStopped
		case err != nil:
			return nil, err
		}
		if r, ok := resp.(Render); ok {
			return r.Artifact, nil
		}
	}
}

// Close closes the request mailbox. The worker finishes the requests
// already queued and exits.
func (p *Proxy) Close() {
	p.requests.Close()
}

// Done is closed when the worker goroutine has returned.
func (p *Proxy) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the worker goroutine has returned.
func (p *Proxy) Wait() {
	<-p.done
}
