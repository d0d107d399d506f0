package build

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gogpu/sceneview/document"
)

// ErrNoArtifact is returned when a builder reports success without an artifact.
var ErrNoArtifact = errors.New("build: builder returned no artifact")

// PanicError is a build that terminated abnormally.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("build: panic: %v", e.Value)
}

// Safe runs b and converts a panic on the calling goroutine into a
// *PanicError. A partially built scene is never returned: on any error
// the artifact is nil.
func Safe(ctx context.Context, b Builder, doc *document.Scene, opts Options) (art *Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	art, err = b.Build(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrNoArtifact
	}
	return art, nil
}
