// Package document holds the logical vector scene that the build worker
// turns into rendered frames.
//
// A Scene is a flat list of objects, each pointing into a shared paint
// table, plus the view rectangle the scene is built into. Scenes are
// produced by the SVG loader and are owned by exactly one goroutine at a
// time: the loader until it hands the scene to the pipeline, the scene
// worker afterwards.
package document

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoPaint marks an object that is not filled or not stroked.
const NoPaint = -1

// Paint is a solid paint referenced by objects.
type Paint struct {
	Color gg.RGBA
}

// Object is a single drawable path.
type Object struct {
	// Name is the element id, if the source document had one.
	Name string

	// Path holds the geometry in scene coordinates. The object
	// transform of the source document has already been applied.
	Path *scene.Path

	// Fill is an index into Scene.Paints, or NoPaint.
	Fill int

	// Rule is the fill rule used when Fill is set.
	Rule scene.FillStyle

	// Stroke is an index into Scene.Paints, or NoPaint.
	Stroke int

	// StrokeWidth is the stroke width in scene units.
	StrokeWidth float32
}

// Scene is a vector scene ready to be built.
type Scene struct {
	Objects []Object
	Paints  []Paint

	// Bounds is the union of all object bounds.
	Bounds scene.Rect

	// ViewBox is the rectangle the scene is built into. It starts as the
	// document's own view box and follows the viewport afterwards.
	ViewBox scene.Rect

	paintIndex map[Paint]int
}

// New creates an empty scene with the given view box.
func New(viewBox scene.Rect) *Scene {
	return &Scene{
		Bounds:     scene.EmptyRect(),
		ViewBox:    viewBox,
		paintIndex: make(map[Paint]int),
	}
}

// AddPaint returns the index of p in the paint table, adding it if needed.
func (s *Scene) AddPaint(p Paint) int {
	if s.paintIndex == nil {
		s.paintIndex = make(map[Paint]int, len(s.Paints))
		for i, existing := range s.Paints {
			s.paintIndex[existing] = i
		}
	}
	if idx, ok := s.paintIndex[p]; ok {
		return idx
	}
	idx := len(s.Paints)
	s.Paints = append(s.Paints, p)
	s.paintIndex[p] = idx
	return idx
}

// AddObject appends an object and grows the scene bounds.
// Objects with an empty path or without any paint are dropped.
func (s *Scene) AddObject(o Object) {
	if o.Path == nil || o.Path.IsEmpty() {
		return
	}
	if o.Fill == NoPaint && o.Stroke == NoPaint {
		return
	}
	bounds := o.Path.Bounds()
	if o.Stroke != NoPaint && o.StrokeWidth > 0 {
		half := o.StrokeWidth / 2
		bounds.MinX -= half
		bounds.MinY -= half
		bounds.MaxX += half
		bounds.MaxY += half
	}
	s.Bounds = s.Bounds.Union(bounds)
	s.Objects = append(s.Objects, o)
}

// SetViewport sets the view box to [0,0]-(width,height).
func (s *Scene) SetViewport(width, height int) {
	s.ViewBox = scene.Rect{MinX: 0, MinY: 0, MaxX: float32(width), MaxY: float32(height)}
}

// ViewportSize returns the view box size rounded to whole pixels.
func (s *Scene) ViewportSize() (width, height int) {
	return int(s.ViewBox.Width() + 0.5), int(s.ViewBox.Height() + 0.5)
}

// Summary reports the object and paint counts, e.g. "1,204 objects, 17 paints".
func (s *Scene) Summary() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d objects, %d paints", len(s.Objects), len(s.Paints))
}

// Paint returns the paint at idx. ok is false for NoPaint or an
// out-of-range index.
func (s *Scene) Paint(idx int) (Paint, bool) {
	if idx < 0 || idx >= len(s.Paints) {
		return Paint{}, false
	}
	return s.Paints[idx], true
}
