package document

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg/scene"
)

// ErrPathData is returned when an SVG path "d" attribute cannot be parsed.
var ErrPathData = errors.New("document: invalid path data")

// ParsePathData parses SVG path data into a scene path.
// All commands of SVG 1.1 are supported; arcs are converted to cubics.
func ParsePathData(d string) (*scene.Path, error) {
	sc := pathScanner{s: d}
	p := scene.NewPath()

	var (
		curX, curY     float32
		startX, startY float32
		ctrlX, ctrlY   float32 // reflected control point for S/T
		prev           byte
		open           bool
	)

	for {
		cmd, ok := sc.command()
		if !ok {
			break
		}
		if !open && cmd != 'M' && cmd != 'm' {
			return nil, fmt.Errorf("%w: path must start with moveto, got %q", ErrPathData, cmd)
		}
		rel := cmd >= 'a'

		first := true
	args:
		for first || sc.more() {
			first = false
			var ox, oy float32
			if rel {
				ox, oy = curX, curY
			}

			switch cmd {
			case 'M', 'm':
				x, y, err := sc.pair()
				if err != nil {
					return nil, err
				}
				curX, curY = ox+x, oy+y
				startX, startY = curX, curY
				p.MoveTo(curX, curY)
				open = true
				// Further coordinate pairs are implicit lineto commands.
				if cmd == 'M' {
					cmd = 'L'
				} else {
					cmd = 'l'
				}

			case 'L', 'l':
				x, y, err := sc.pair()
				if err != nil {
					return nil, err
				}
				curX, curY = ox+x, oy+y
				p.LineTo(curX, curY)

			case 'H', 'h':
				x, err := sc.number()
				if err != nil {
					return nil, err
				}
				curX = ox + x
				p.LineTo(curX, curY)

			case 'V', 'v':
				y, err := sc.number()
				if err != nil {
					return nil, err
				}
				curY = oy + y
				p.LineTo(curX, curY)

			case 'C', 'c':
				v, err := sc.numbers(6)
				if err != nil {
					return nil, err
				}
				p.CubicTo(ox+v[0], oy+v[1], ox+v[2], oy+v[3], ox+v[4], oy+v[5])
				ctrlX, ctrlY = ox+v[2], oy+v[3]
				curX, curY = ox+v[4], oy+v[5]

			case 'S', 's':
				v, err := sc.numbers(4)
				if err != nil {
					return nil, err
				}
				c1x, c1y := curX, curY
				if isCubic(prev) {
					c1x, c1y = 2*curX-ctrlX, 2*curY-ctrlY
				}
				p.CubicTo(c1x, c1y, ox+v[0], oy+v[1], ox+v[2], oy+v[3])
				ctrlX, ctrlY = ox+v[0], oy+v[1]
				curX, curY = ox+v[2], oy+v[3]

			case 'Q', 'q':
				v, err := sc.numbers(4)
				if err != nil {
					return nil, err
				}
				p.QuadTo(ox+v[0], oy+v[1], ox+v[2], oy+v[3])
				ctrlX, ctrlY = ox+v[0], oy+v[1]
				curX, curY = ox+v[2], oy+v[3]

			case 'T', 't':
				x, y, err := sc.pair()
				if err != nil {
					return nil, err
				}
				cx, cy := curX, curY
				if isQuad(prev) {
					cx, cy = 2*curX-ctrlX, 2*curY-ctrlY
				}
				p.QuadTo(cx, cy, ox+x, oy+y)
				ctrlX, ctrlY = cx, cy
				curX, curY = ox+x, oy+y

			case 'A', 'a':
				v, err := sc.numbers(3)
				if err != nil {
					return nil, err
				}
				large, err := sc.flag()
				if err != nil {
					return nil, err
				}
				sweep, err := sc.flag()
				if err != nil {
					return nil, err
				}
				x, y, err := sc.pair()
				if err != nil {
					return nil, err
				}
				arcTo(p, curX, curY, v[0], v[1], v[2]*math32.Pi/180, large, sweep, ox+x, oy+y)
				curX, curY = ox+x, oy+y

			case 'Z', 'z':
				p.Close()
				curX, curY = startX, startY
				prev = cmd
				break args

			default:
				return nil, fmt.Errorf("%w: unknown command %q", ErrPathData, cmd)
			}
			prev = cmd
		}
	}

	if !sc.done() {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrPathData, sc.s[sc.pos], sc.pos)
	}
	return p, nil
}

func isCubic(c byte) bool { return c == 'C' || c == 'c' || c == 'S' || c == 's' }
func isQuad(c byte) bool  { return c == 'Q' || c == 'q' || c == 'T' || c == 't' }

// pathScanner tokenizes SVG path data and number lists.
type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *pathScanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

func (sc *pathScanner) command() (byte, bool) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return 0, false
	}
	c := sc.s[sc.pos]
	if (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && c != 'e' && c != 'E' {
		sc.pos++
		return c, true
	}
	return 0, false
}

// more reports whether another number follows.
func (sc *pathScanner) more() bool {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (sc *pathScanner) number() (float32, error) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '-' || sc.s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrPathData, start)
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '-' || sc.s[j] == '+') {
			j++
		}
		if j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPathData, err)
	}
	sc.pos = i
	return float32(v), nil
}

func (sc *pathScanner) pair() (x, y float32, err error) {
	if x, err = sc.number(); err != nil {
		return 0, 0, err
	}
	if y, err = sc.number(); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (sc *pathScanner) numbers(n int) ([]float32, error) {
	v := make([]float32, n)
	for i := range v {
		f, err := sc.number()
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return v, nil
}

// flag reads an arc flag. Flags may be written without separators ("a1 1 0 01 5 5").
func (sc *pathScanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return false, nil
		case '1':
			sc.pos++
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: expected arc flag at offset %d", ErrPathData, sc.pos)
}

// arcTo appends an elliptical arc from (x0, y0) to (x, y) as cubic curves,
// following the endpoint-to-center conversion of SVG 1.1 appendix F.6.
func arcTo(p *scene.Path, x0, y0, rx, ry, phi float32, large, sweep bool, x, y float32) {
	if x0 == x && y0 == y {
		return
	}
	rx, ry = math32.Abs(rx), math32.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(x, y)
		return
	}

	sinPhi, cosPhi := math32.Sincos(phi)
	dx2, dy2 := (x0-x)/2, (y0-y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale radii up if the end point is out of reach.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math32.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := float32(0)
	if den != 0 && num > 0 {
		coef = math32.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math32.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math32.Pi
	}

	segments := int(math32.Ceil(math32.Abs(delta)/(math32.Pi/2) - 1e-3))
	if segments < 1 {
		segments = 1
	}
	step := delta / float32(segments)
	k := 4.0 / 3.0 * math32.Tan(step/4)

	point := func(t float32) (float32, float32, float32, float32) {
		sinT, cosT := math32.Sincos(t)
		// Point and derivative on the unrotated ellipse.
		ex, ey := rx*cosT, ry*sinT
		dx, dy := -rx*sinT, ry*cosT
		px := cosPhi*ex - sinPhi*ey + cx
		py := sinPhi*ex + cosPhi*ey + cy
		tx := cosPhi*dx - sinPhi*dy
		ty := sinPhi*dx + cosPhi*dy
		return px, py, tx, ty
	}

	t := theta1
	px, py, tx, ty := point(t)
	for i := 0; i < segments; i++ {
		t2 := t + step
		qx, qy, ux, uy := point(t2)
		if i == segments-1 {
			qx, qy = x, y
		}
		p.CubicTo(px+k*tx, py+k*ty, qx-k*ux, qy-k*uy, qx, qy)
		t, px, py, tx, ty = t2, qx, qy, ux, uy
	}
}

func vectorAngle(ux, uy, vx, vy float32) float32 {
	return math32.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
