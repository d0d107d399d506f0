package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
	"golang.org/x/net/html/charset"
)

// ErrNotSVG is returned when the document has no <svg> root element.
var ErrNotSVG = errors.New("document: not an SVG document")

// LoadFile reads and parses the SVG file at path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("document: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("document: load %s: %w", path, err)
	}
	return s, nil
}

// Load parses an SVG document.
//
// The supported subset covers the shapes that make up typical vector art:
// path, rect, circle, ellipse, line, polyline and polygon inside nested
// groups, with transform, fill, stroke, stroke-width, fill-rule and the
// opacity properties given as attributes or inline style. Gradients,
// clipping, text and referenced content are skipped.
func Load(r io.Reader) (*Scene, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		s     *Scene
		stack []style
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if s == nil {
				if name != "svg" {
					return nil, ErrNotSVG
				}
				root, viewBox, err := parseRoot(t.Attr)
				if err != nil {
					return nil, err
				}
				s = New(viewBox)
				st := defaultStyle()
				st.transform = root
				if err := st.apply(t.Attr); err != nil {
					return nil, err
				}
				stack = append(stack, st)
				continue
			}

			if skippedElements[name] {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("document: %w", err)
				}
				continue
			}

			st := stack[len(stack)-1]
			if err := st.apply(t.Attr); err != nil {
				return nil, fmt.Errorf("document: <%s>: %w", name, err)
			}
			stack = append(stack, st)

			path, err := shapePath(name, t.Attr)
			if err != nil {
				return nil, fmt.Errorf("document: <%s>: %w", name, err)
			}
			if path != nil {
				s.AddObject(st.object(s, attr(t.Attr, "id"), path, name == "line" || name == "polyline"))
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if s == nil {
		return nil, ErrNotSVG
	}
	return s, nil
}

// skippedElements are containers whose content is never drawn directly.
var skippedElements = map[string]bool{
	"defs":           true,
	"clipPath":       true,
	"mask":           true,
	"symbol":         true,
	"pattern":        true,
	"marker":         true,
	"linearGradient": true,
	"radialGradient": true,
	"filter":         true,
	"style":          true,
	"script":         true,
	"metadata":       true,
	"title":          true,
	"desc":           true,
	"text":           true,
	"image":          true,
	"use":            true,
}

// parseRoot computes the transform from user space to the document
// viewport and the initial view box.
func parseRoot(attrs []xml.Attr) (scene.Affine, scene.Rect, error) {
	width, errW := parseLength(attr(attrs, "width"))
	height, errH := parseLength(attr(attrs, "height"))
	hasSize := errW == nil && errH == nil && width > 0 && height > 0

	vb := attr(attrs, "viewBox")
	if vb == "" {
		if !hasSize {
			width, height = 100, 100
		}
		return scene.IdentityAffine(), scene.Rect{MaxX: width, MaxY: height}, nil
	}

	sc := pathScanner{s: vb}
	v, err := sc.numbers(4)
	if err != nil || v[2] <= 0 || v[3] <= 0 {
		return scene.Affine{}, scene.Rect{}, fmt.Errorf("document: invalid viewBox %q", vb)
	}
	if !hasSize {
		width, height = v[2], v[3]
	}
	t := scene.ScaleAffine(width/v[2], height/v[3]).Multiply(scene.TranslateAffine(-v[0], -v[1]))
	return t, scene.Rect{MaxX: width, MaxY: height}, nil
}

// shapePath builds the untransformed geometry of a shape element.
// It returns nil for elements that carry no geometry (groups).
func shapePath(name string, attrs []xml.Attr) (*scene.Path, error) {
	num := func(key string) float32 {
		v, _ := parseLength(attr(attrs, key))
		return v
	}

	switch name {
	case "path":
		d := attr(attrs, "d")
		if strings.TrimSpace(d) == "" {
			return nil, nil
		}
		return ParsePathData(d)

	case "rect":
		x, y, w, h := num("x"), num("y"), num("width"), num("height")
		if w <= 0 || h <= 0 {
			return nil, nil
		}
		rx, ry := num("rx"), num("ry")
		if rx == 0 {
			rx = ry
		}
		p := scene.NewPath()
		if rx > 0 {
			return p.RoundedRectangle(x, y, w, h, math32.Min(rx, math32.Min(w, h)/2)), nil
		}
		return p.Rectangle(x, y, w, h), nil

	case "circle":
		r := num("r")
		if r <= 0 {
			return nil, nil
		}
		return scene.NewPath().Circle(num("cx"), num("cy"), r), nil

	case "ellipse":
		rx, ry := num("rx"), num("ry")
		if rx <= 0 || ry <= 0 {
			return nil, nil
		}
		return scene.NewPath().Ellipse(num("cx"), num("cy"), rx, ry), nil

	case "line":
		return scene.NewPath().MoveTo(num("x1"), num("y1")).LineTo(num("x2"), num("y2")), nil

	case "polyline", "polygon":
		sc := pathScanner{s: attr(attrs, "points")}
		p := scene.NewPath()
		for i := 0; sc.more(); i++ {
			x, y, err := sc.pair()
			if err != nil {
				return nil, err
			}
			if i == 0 {
				p.MoveTo(x, y)
			} else {
				p.LineTo(x, y)
			}
		}
		if p.IsEmpty() {
			return nil, nil
		}
		if name == "polygon" {
			p.Close()
		}
		return p, nil
	}
	return nil, nil
}

// paintSpec is a resolved fill or stroke property.
type paintSpec struct {
	none  bool
	color gg.RGBA
}

// style is the inherited presentation state of an element.
type style struct {
	transform     scene.Affine
	fill          paintSpec
	stroke        paintSpec
	strokeWidth   float32
	rule          scene.FillStyle
	opacity       float64
	fillOpacity   float64
	strokeOpacity float64
}

func defaultStyle() style {
	return style{
		transform:     scene.IdentityAffine(),
		fill:          paintSpec{color: gg.Black},
		stroke:        paintSpec{none: true},
		strokeWidth:   1,
		rule:          scene.FillNonZero,
		opacity:       1,
		fillOpacity:   1,
		strokeOpacity: 1,
	}
}

// apply updates st with the attributes and inline style of an element.
// Inline style wins over presentation attributes.
func (st *style) apply(attrs []xml.Attr) error {
	props := make([][2]string, 0, len(attrs))
	for _, a := range attrs {
		switch a.Name.Local {
		case "transform":
			t, err := ParseTransform(a.Value)
			if err != nil {
				return err
			}
			st.transform = st.transform.Multiply(t)
		case "style":
			for decl := range strings.SplitSeq(a.Value, ";") {
				k, v, ok := strings.Cut(decl, ":")
				if ok {
					props = append(props, [2]string{strings.TrimSpace(k), strings.TrimSpace(v)})
				}
			}
		default:
			props = append(props, [2]string{a.Name.Local, strings.TrimSpace(a.Value)})
		}
	}
	// Attributes were collected before style declarations, so later
	// entries override earlier ones.
	for _, kv := range props {
		if err := st.set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (st *style) set(key, value string) error {
	if value == "inherit" || value == "" {
		return nil
	}
	switch key {
	case "fill":
		p, err := parsePaint(value)
		if err != nil {
			return err
		}
		st.fill = p
	case "stroke":
		p, err := parsePaint(value)
		if err != nil {
			return err
		}
		st.stroke = p
	case "stroke-width":
		w, err := parseLength(value)
		if err != nil {
			return err
		}
		st.strokeWidth = w
	case "fill-rule":
		if value == "evenodd" {
			st.rule = scene.FillEvenOdd
		} else {
			st.rule = scene.FillNonZero
		}
	case "opacity":
		st.opacity *= parseOpacity(value)
	case "fill-opacity":
		st.fillOpacity = parseOpacity(value)
	case "stroke-opacity":
		st.strokeOpacity = parseOpacity(value)
	}
	return nil
}

// object resolves the style into a scene object for path.
func (st *style) object(s *Scene, name string, path *scene.Path, strokeOnly bool) Object {
	o := Object{
		Name:        name,
		Path:        path.Transform(st.transform),
		Fill:        NoPaint,
		Rule:        st.rule,
		Stroke:      NoPaint,
		StrokeWidth: st.strokeWidth * transformScale(st.transform),
	}
	if !st.fill.none && !strokeOnly {
		c := st.fill.color
		c.A *= st.opacity * st.fillOpacity
		o.Fill = s.AddPaint(Paint{Color: c})
	}
	if !st.stroke.none && st.strokeWidth > 0 {
		c := st.stroke.color
		c.A *= st.opacity * st.strokeOpacity
		o.Stroke = s.AddPaint(Paint{Color: c})
	}
	return o
}

// transformScale approximates the uniform scale of an affine transform.
func transformScale(t scene.Affine) float32 {
	return math32.Sqrt(math32.Abs(t.A*t.E - t.B*t.D))
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// parseLength parses a length in user units. Only unitless and px values
// are meaningful without a viewport, so other units are rejected.
func parseLength(s string) (float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" {
		return 0, fmt.Errorf("document: empty length")
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("document: invalid length %q", s)
	}
	return float32(v), nil
}

func parseOpacity(s string) float64 {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 1
	}
	if pct {
		v /= 100
	}
	return min(max(v, 0), 1)
}
