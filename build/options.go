// Package build turns a document scene plus per-frame options into a
// rendered artifact.
//
// The package has three parts:
//   - Options and Assemble: the immutable per-build request
//   - Builder and TileBuilder: the build itself, on gg's tiled scene renderer
//   - Safe: the boundary that turns a crashing build into an error
package build

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ApproxFontSize is the nominal font size, in logical pixels, that stem
// darkening is tuned for.
const ApproxFontSize float32 = 16

// StemDarkeningFactors are the per-axis dilation factors per pixel of
// font size. Vertical stems are thickened slightly more than horizontal ones.
var StemDarkeningFactors = mgl32.Vec2{0.0121, 0.0121 * 1.25}

// TransformKind selects how scene geometry is mapped to the viewport.
type TransformKind uint8

const (
	// Identity2D draws the scene as is.
	Identity2D TransformKind = iota
	// Perspective3D projects the scene through a 4x4 transform.
	Perspective3D
)

// String returns a human-readable name for the kind.
func (k TransformKind) String() string {
	switch k {
	case Identity2D:
		return "2d"
	case Perspective3D:
		return "3d"
	default:
		return "unknown"
	}
}

// Perspective is a world-to-clip transform together with the viewport
// clip space is mapped onto.
type Perspective struct {
	Transform mgl32.Mat4
	Viewport  image.Point
}

// Options is the request for a single build. It is a plain value: once
// sent to the worker, neither side can mutate what the other sees.
type Options struct {
	Kind TransformKind

	// Perspective is only meaningful when Kind is Perspective3D.
	Perspective Perspective

	// Dilation thickens every filled outline by this many pixels per axis.
	Dilation mgl32.Vec2
}

// Inputs is everything Assemble reads: the effect toggles that affect
// the build, the camera output and the display scale factor.
type Inputs struct {
	ThreeD        bool
	StemDarkening bool
	Projection    mgl32.Mat4
	Viewport      image.Point
	ScaleFactor   float32
}

// Assemble builds the options for one build. It is a pure function.
func Assemble(in Inputs) Options {
	var opts Options
	if in.ThreeD {
		opts.Kind = Perspective3D
		opts.Perspective = Perspective{Transform: in.Projection, Viewport: in.Viewport}
	}
	if in.StemDarkening {
		opts.Dilation = StemDarkeningFactors.Mul(ApproxFontSize * in.ScaleFactor)
	}
	return opts
}
