package frame

import (
	"context"
	"image"

	"github.com/gogpu/sceneview/camera"
	"github.com/gogpu/sceneview/document"
)

// EventKind identifies an input event.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventResize
	EventPointerDown
	EventPointerMotion
	EventSceneLoaded
)

var eventKindNames = [...]string{
	EventNone:          "none",
	EventQuit:          "quit",
	EventKeyDown:       "key-down",
	EventKeyUp:         "key-up",
	EventResize:        "resize",
	EventPointerDown:   "pointer-down",
	EventPointerMotion: "pointer-motion",
	EventSceneLoaded:   "scene-loaded",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Key is a keyboard key the loop reacts to.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyW
	KeyA
	KeyS
	KeyD
)

// ParseKey maps a key name such as "w" or "escape" to a Key.
func ParseKey(name string) Key {
	switch name {
	case "escape", "esc":
		return KeyEscape
	case "w", "W":
		return KeyW
	case "a", "A":
		return KeyA
	case "s", "S":
		return KeyS
	case "d", "D":
		return KeyD
	default:
		return KeyUnknown
	}
}

// direction maps a movement key to a camera direction.
func direction(k Key) (camera.Direction, bool) {
	switch k {
	case KeyW:
		return camera.Forward, true
	case KeyS:
		return camera.Backward, true
	case KeyA:
		return camera.Left, true
	case KeyD:
		return camera.Right, true
	default:
		return 0, false
	}
}

// Event is one input event. Only the fields of its kind are set.
type Event struct {
	Kind EventKind

	// Key is set for EventKeyDown and EventKeyUp.
	Key Key

	// Size is the new drawable size for EventResize.
	Size image.Point

	// Point is the window position of an EventPointerDown.
	Point image.Point

	// DX, DY is the relative motion of an EventPointerMotion.
	DX, DY float32

	// Scene is a freshly loaded scene for EventSceneLoaded.
	Scene *document.Scene
}

// InputSource delivers input events.
type InputSource interface {
	// Wait blocks until one event is available.
	Wait(ctx context.Context) (Event, error)

	// Poll returns the events already queued without blocking.
	Poll() []Event
}
