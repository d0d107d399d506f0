package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNew(t *testing.T) {
	c := New()
	if c.Position != InitialPosition {
		t.Errorf("Position = %v, want %v", c.Position, InitialPosition)
	}
	if c.Moving() {
		t.Error("new camera should be idle")
	}
}

func TestStep_ZeroVelocityKeepsPosition(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
	}{
		{"level", 0, 0},
		{"turned", 1.2, -0.4},
		{"upside down", 3.1, 3.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Yaw, c.Pitch = tt.yaw, tt.pitch
			for range 10 {
				c.Step()
			}
			if c.Position != InitialPosition {
				t.Errorf("Position = %v, want %v", c.Position, InitialPosition)
			}
		})
	}
}

func TestStep_ForwardMovesAlongNegativeZ(t *testing.T) {
	c := New()
	c.Velocity = mgl32.Vec3{0, 0, -25}
	c.Step()

	want := mgl32.Vec3{500, 500, 2975}
	if !c.Position.ApproxEqual(want) {
		t.Errorf("Position = %v, want %v", c.Position, want)
	}
	if c.Position[0] != 500 || c.Position[1] != 500 {
		t.Errorf("x/y changed: %v", c.Position)
	}
}

func TestStep_FollowsYaw(t *testing.T) {
	c := New()
	c.Yaw = mgl32.DegToRad(90)
	c.Press(Forward)
	c.Step()

	// Forward follows the view direction, so a quarter turn moves the
	// camera along the X axis only.
	d := c.Position.Sub(InitialPosition)
	if !mgl32.FloatEqualThreshold(d.Len(), Speed, 1e-3) {
		t.Errorf("moved %v, want a step of length %v", d.Len(), Speed)
	}
	if !mgl32.FloatEqualThreshold(d[2], 0, 1e-3) {
		t.Errorf("z changed by %v, want 0", d[2])
	}
}

func TestPressRelease(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, -Speed}},
		{Backward, mgl32.Vec3{0, 0, Speed}},
		{Left, mgl32.Vec3{-Speed, 0, 0}},
		{Right, mgl32.Vec3{Speed, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			c := New()
			c.Press(tt.dir)
			if c.Velocity != tt.want {
				t.Errorf("Press(%v): Velocity = %v, want %v", tt.dir, c.Velocity, tt.want)
			}
			if !c.Moving() {
				t.Error("Moving() = false after Press")
			}
			c.Release(tt.dir)
			if c.Moving() {
				t.Errorf("Release(%v): Velocity = %v, want zero", tt.dir, c.Velocity)
			}
		})
	}
}

func TestRelease_ClearsOnlyItsAxis(t *testing.T) {
	c := New()
	c.Press(Forward)
	c.Press(Right)
	c.Release(Backward)
	want := mgl32.Vec3{Speed, 0, 0}
	if c.Velocity != want {
		t.Errorf("Velocity = %v, want %v", c.Velocity, want)
	}
}

func TestLook(t *testing.T) {
	c := New()
	c.Look(100, 50)
	if !mgl32.FloatEqual(c.Yaw, 100*LookSpeed) {
		t.Errorf("Yaw = %v, want %v", c.Yaw, 100*LookSpeed)
	}
	if !mgl32.FloatEqual(c.Pitch, -50*LookSpeed) {
		t.Errorf("Pitch = %v, want %v", c.Pitch, -50*LookSpeed)
	}
}

func TestProjection_CameraCenterProjectsToOrigin(t *testing.T) {
	c := New()
	m := c.Projection(4.0 / 3.0)

	// A point straight ahead of the camera lands in the middle of clip space.
	ahead := c.Position.Sub(mgl32.Vec3{0, 0, 800})
	ndc := mgl32.TransformCoordinate(ahead, m)
	if !mgl32.FloatEqualThreshold(ndc[0], 0, 1e-5) || !mgl32.FloatEqualThreshold(ndc[1], 0, 1e-5) {
		t.Errorf("point ahead projects to %v, want x=y=0", ndc)
	}
}

func TestProjection_InvalidAspect(t *testing.T) {
	c := New()
	if got, want := c.Projection(0), c.Projection(1); got != want {
		t.Errorf("Projection(0) = %v, want Projection(1)", got)
	}
}
