package document

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gogpu/gg/scene"
)

// Dump writes a human-readable description of the whole scene to w.
// It is used as the crash report when a build fails, so it only reads
// plain data and never panics on malformed paths.
func (s *Scene) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Scene: %s\n", s.Summary())
	fmt.Fprintf(bw, "  view box: %s\n", formatRect(s.ViewBox))
	fmt.Fprintf(bw, "  bounds:   %s\n", formatRect(s.Bounds))

	for i, p := range s.Paints {
		fmt.Fprintf(bw, "  paint[%d] rgba(%.3f, %.3f, %.3f, %.3f)\n", i, p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	}

	for i, o := range s.Objects {
		fmt.Fprintf(bw, "  object[%d]", i)
		if o.Name != "" {
			fmt.Fprintf(bw, " %q", o.Name)
		}
		fmt.Fprintf(bw, " fill=%d rule=%d stroke=%d width=%g\n", o.Fill, o.Rule, o.Stroke, o.StrokeWidth)
		if o.Path == nil {
			fmt.Fprintln(bw, "    <nil path>")
			continue
		}
		dumpPath(bw, o.Path)
	}

	return bw.Flush()
}

func dumpPath(w io.Writer, p *scene.Path) {
	points := p.Points()
	idx := 0
	for _, verb := range p.Verbs() {
		n := verb.PointCount()
		if idx+n > len(points) {
			fmt.Fprintf(w, "    %s <truncated>\n", verb)
			return
		}
		fmt.Fprintf(w, "    %s", verb)
		for i := idx; i < idx+n; i += 2 {
			fmt.Fprintf(w, " (%g, %g)", points[i], points[i+1])
		}
		fmt.Fprintln(w)
		idx += n
	}
}

func formatRect(r scene.Rect) string {
	if r.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("(%g, %g)-(%g, %g)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
