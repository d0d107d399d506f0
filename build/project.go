package build

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/sceneview/camera"
)

// projectPath maps every point of p from scene space into viewport pixels.
//
// Scene geometry lies on the z = 0 plane. Control points are projected
// like end points, which is exact for lines and a close approximation for
// curves at the small angles a free-look camera produces. Paths with any
// point on or behind the near plane are rejected. scale is the ratio of
// projected to original size, used to scale stroke widths.
func projectPath(p *scene.Path, persp Perspective) (out *scene.Path, scale float32, ok bool) {
	m := persp.Transform
	vw, vh := float32(persp.Viewport.X), float32(persp.Viewport.Y)

	project := func(x, y float32) (float32, float32, bool) {
		clip := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
		if clip[3] < camera.Near {
			return 0, 0, false
		}
		nx, ny := clip[0]/clip[3], clip[1]/clip[3]
		// Scene space is y-down, and so is the viewport.
		return (nx + 1) / 2 * vw, (ny + 1) / 2 * vh, true
	}

	points := p.Points()
	projected := make([]float32, len(points))
	for i := 0; i < len(points); i += 2 {
		x, y, visible := project(points[i], points[i+1])
		if !visible {
			return nil, 0, false
		}
		projected[i], projected[i+1] = x, y
	}

	out = scene.NewPath()
	idx := 0
	for _, verb := range p.Verbs() {
		v := projected[idx : idx+verb.PointCount()]
		switch verb {
		case scene.MoveTo:
			out.MoveTo(v[0], v[1])
		case scene.LineTo:
			out.LineTo(v[0], v[1])
		case scene.QuadTo:
			out.QuadTo(v[0], v[1], v[2], v[3])
		case scene.CubicTo:
			out.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5])
		case scene.Close:
			out.Close()
		}
		idx += verb.PointCount()
	}

	return out, boundsScale(p.Bounds(), out.Bounds()), true
}

func boundsScale(before, after scene.Rect) float32 {
	d0 := math32.Hypot(before.Width(), before.Height())
	if d0 == 0 {
		return 1
	}
	return math32.Hypot(after.Width(), after.Height()) / d0
}
