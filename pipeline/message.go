package pipeline

import (
	"image"

	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/document"
)

// Request is a message from the control loop to the scene worker.
type Request interface {
	request()
}

// SetViewport resizes the scene view box to [0, 0]-Size. It has no reply.
type SetViewport struct {
	Size image.Point
}

// SetScene replaces the worker's scene. The current view box is kept.
// Ownership of Scene passes to the worker. It has no reply.
type SetScene struct {
	Scene *document.Scene
}

// Build asks for one build with the given options. It is answered by
// exactly one Render, or by worker termination.
type Build struct {
	Options build.Options
}

func (SetViewport) request() {}
func (SetScene) request()    {}
func (Build) request()       {}

// Response is a message from the scene worker to the control loop.
type Response interface {
	response()
}

// Render carries a finished build. Ownership of Artifact passes to the
// receiver.
type Render struct {
	Artifact *build.Artifact
}

func (Render) response() {}
