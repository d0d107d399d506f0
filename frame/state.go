package frame

import (
	"image"

	"github.com/gogpu/sceneview/camera"
)

// Toggles is the state of the demo UI switches.
type Toggles struct {
	ThreeD bool

	// GammaCorrection and SubpixelAA are shown and reported by the
	// presenter but do not change the built frame.
	GammaCorrection bool

	// StemDarkening dilates filled outlines, see build.Assemble.
	StemDarkening bool

	SubpixelAA          bool
	EffectsPanelVisible bool
}

// UIEvent is the pointer event offered to the UI once per frame.
// The zero value is no event.
type UIEvent struct {
	pending bool
	point   image.Point
}

// PointerDown returns a pending pointer-down event at p, in framebuffer pixels.
func PointerDown(p image.Point) UIEvent {
	return UIEvent{pending: true, point: p}
}

// IsNone reports whether there is no pending event.
func (e UIEvent) IsNone() bool {
	return !e.pending
}

// Point returns the event position.
func (e UIEvent) Point() image.Point {
	return e.point
}

// ConsumeIn consumes the event if it is a pointer-down inside r.
func (e *UIEvent) ConsumeIn(r image.Rectangle) bool {
	if e.pending && e.point.In(r) {
		*e = UIEvent{}
		return true
	}
	return false
}

// State is everything the control loop carries from frame to frame.
type State struct {
	Camera  camera.Camera
	Toggles Toggles

	// FreeLook routes pointer motion to the camera.
	FreeLook bool

	// Frame counts completed frames.
	Frame uint64

	// HandledLastFrame is set when the previous frame had a pointer-down
	// and the UI consumed it.
	HandledLastFrame bool

	// Viewport is the drawable size in pixels.
	Viewport image.Point

	// ScaleFactor is drawable pixels per window unit.
	ScaleFactor float32

	Exit bool
}

// Aspect returns the viewport aspect ratio.
func (s *State) Aspect() float32 {
	if s.Viewport.Y == 0 {
		return 1
	}
	return float32(s.Viewport.X) / float32(s.Viewport.Y)
}

// WaitPolicy decides when the loop may block for input instead of
// drawing the next frame right away.
type WaitPolicy struct {
	// MinFrames is how many frames must complete before the loop ever waits.
	MinFrames uint64

	// BlockWhileMoving selects the camera condition. When set the loop
	// waits only while the camera moves, otherwise only while it is idle.
	BlockWhileMoving bool
}

// DefaultWaitPolicy waits only while the camera moves, once two frames
// have completed.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{MinFrames: 2, BlockWhileMoving: true}
}

// ShouldWait reports whether to block for one input event this frame.
func (p WaitPolicy) ShouldWait(frame uint64, moving, handledLastFrame bool) bool {
	return moving == p.BlockWhileMoving && frame >= p.MinFrames && !handledLastFrame
}
