package build

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAssemble(t *testing.T) {
	projection := mgl32.Translate3D(1, 2, 3)
	viewport := image.Pt(800, 600)

	tests := []struct {
		name         string
		in           Inputs
		wantKind     TransformKind
		wantDilation mgl32.Vec2
	}{
		{
			name:     "defaults",
			in:       Inputs{Projection: projection, Viewport: viewport, ScaleFactor: 1},
			wantKind: Identity2D,
		},
		{
			name:     "3d",
			in:       Inputs{ThreeD: true, Projection: projection, Viewport: viewport, ScaleFactor: 1},
			wantKind: Perspective3D,
		},
		{
			name:         "stem darkening at 1x",
			in:           Inputs{StemDarkening: true, ScaleFactor: 1},
			wantKind:     Identity2D,
			wantDilation: mgl32.Vec2{0.0121 * 16, 0.0121 * 1.25 * 16},
		},
		{
			name:         "stem darkening at 2x",
			in:           Inputs{StemDarkening: true, ScaleFactor: 2},
			wantKind:     Identity2D,
			wantDilation: mgl32.Vec2{0.0121 * 32, 0.0121 * 1.25 * 32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(tt.in)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if !got.Dilation.ApproxEqualThreshold(tt.wantDilation, 1e-5) {
				t.Errorf("Dilation = %v, want %v", got.Dilation, tt.wantDilation)
			}
		})
	}
}

func TestAssemble_Perspective(t *testing.T) {
	projection := mgl32.Translate3D(1, 2, 3)
	viewport := image.Pt(800, 600)

	got := Assemble(Inputs{ThreeD: true, Projection: projection, Viewport: viewport})
	want := Perspective{Transform: projection, Viewport: viewport}
	if got.Perspective != want {
		t.Errorf("Perspective = %+v, want %+v", got.Perspective, want)
	}
}

func TestAssemble_2DIgnoresProjection(t *testing.T) {
	got := Assemble(Inputs{Projection: mgl32.Translate3D(1, 2, 3), Viewport: image.Pt(10, 10)})
	if got != (Options{}) {
		t.Errorf("Assemble(2d) = %+v, want zero options", got)
	}
}

func TestAssemble_StemDarkeningOff(t *testing.T) {
	for _, scale := range []float32{0, 1, 1.5, 2, 3} {
		got := Assemble(Inputs{ScaleFactor: scale})
		if got.Dilation != (mgl32.Vec2{}) {
			t.Errorf("Assemble(scale=%v).Dilation = %v, want zero", scale, got.Dilation)
		}
	}
}

func TestAssemble_Pure(t *testing.T) {
	in := Inputs{
		ThreeD:        true,
		StemDarkening: true,
		Projection:    mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 10),
		Viewport:      image.Pt(640, 480),
		ScaleFactor:   2,
	}
	if a, b := Assemble(in), Assemble(in); a != b {
		t.Errorf("Assemble() not deterministic: %+v != %+v", a, b)
	}
}

func TestTransformKind_String(t *testing.T) {
	tests := []struct {
		kind TransformKind
		want string
	}{
		{Identity2D, "2d"},
		{Perspective3D, "3d"},
		{TransformKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TransformKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
