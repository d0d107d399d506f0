package build

import (
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
)

// Artifact is the result of one build. The receiver owns it entirely;
// the builder keeps no reference to the frame.
type Artifact struct {
	// Frame holds the rendered scene, sized to the scene view box.
	Frame *gg.Pixmap

	// Options are the options the artifact was built with.
	Options Options

	// Stats are the tile renderer statistics for this build.
	Stats scene.RenderStats

	// Objects is the number of objects drawn, Culled the number skipped
	// because they were behind the camera.
	Objects int
	Culled  int

	// BuildTime is the wall-clock time the build took, measured by the worker.
	BuildTime time.Duration
}
