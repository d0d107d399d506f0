// Package camera implements the free-look camera used in 3D mode.
//
// Velocity is expressed in camera-local space and integrated into world
// space once per frame with a fixed step. The projection composes, from
// left to right:
//
//	perspective(fov, aspect, near, far) · scale(WorldScale) · rotation(yaw, pitch) · translation(−position)
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Speed is the magnitude a directional key sets on its velocity axis.
	Speed float32 = 25

	// LookSpeed converts pointer motion in pixels to radians.
	LookSpeed float32 = 0.007

	// WorldScale maps scene units into the projection volume.
	WorldScale float32 = 1.0 / 800.0

	// FieldOfView is the vertical field of view in radians.
	FieldOfView = math32.Pi / 4

	// Near and Far bound the projection volume.
	Near float32 = 0.025
	Far  float32 = 100
)

// InitialPosition is where the camera starts, looking down -Z at the scene.
var InitialPosition = mgl32.Vec3{500, 500, 3000}

// Direction is one of the four movement keys.
type Direction uint8

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Camera is the camera state. The zero value is not useful; use New.
type Camera struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// New returns an idle camera at InitialPosition.
func New() Camera {
	return Camera{Position: InitialPosition}
}

// Moving reports whether any velocity axis is non-zero.
func (c *Camera) Moving() bool {
	return c.Velocity != mgl32.Vec3{}
}

// Press sets the velocity axis of d to its fixed magnitude.
func (c *Camera) Press(d Direction) {
	switch d {
	case Forward:
		c.Velocity[2] = -Speed
	case Backward:
		c.Velocity[2] = Speed
	case Left:
		c.Velocity[0] = -Speed
	case Right:
		c.Velocity[0] = Speed
	}
}

// Release zeroes the velocity axis of d. Releasing either key of an axis
// stops motion along it.
func (c *Camera) Release(d Direction) {
	switch d {
	case Forward, Backward:
		c.Velocity[2] = 0
	case Left, Right:
		c.Velocity[0] = 0
	}
}

// Look applies free-look pointer motion.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * LookSpeed
	c.Pitch -= dy * LookSpeed
}

// Step integrates one frame of motion: the camera-local velocity is
// rotated into world space and added to the position.
func (c *Camera) Step() {
	if !c.Moving() {
		return
	}
	toWorld := mgl32.HomogRotate3DY(-c.Yaw).Mul4(mgl32.HomogRotate3DX(-c.Pitch))
	c.Position = c.Position.Add(toWorld.Mul4x1(c.Velocity.Vec4(0)).Vec3())
}

// Rotation returns the view rotation for the current yaw and pitch.
func (c *Camera) Rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.Pitch).Mul4(mgl32.HomogRotate3DY(c.Yaw))
}

// Projection returns the full world-to-clip transform for a viewport of
// the given aspect ratio (width / height).
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	m := mgl32.Perspective(FieldOfView, aspect, Near, Far)
	m = m.Mul4(mgl32.Scale3D(WorldScale, WorldScale, WorldScale))
	m = m.Mul4(c.Rotation())
	m = m.Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
	return m
}
