package document

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg/scene"
)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45 5 5) scale(2)". The result applies the
// rightmost transform first, as SVG does.
func ParseTransform(s string) (scene.Affine, error) {
	result := scene.IdentityAffine()
	rest := strings.TrimSpace(s)

	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open < 0 || closing < open {
			return scene.Affine{}, fmt.Errorf("document: invalid transform %q", s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := transformArgs(rest[open+1 : closing])
		if err != nil {
			return scene.Affine{}, fmt.Errorf("document: invalid transform %q: %w", s, err)
		}

		t, err := transformFunc(name, args)
		if err != nil {
			return scene.Affine{}, fmt.Errorf("document: invalid transform %q: %w", s, err)
		}
		result = result.Multiply(t)
		rest = strings.TrimLeft(rest[closing+1:], " \t\r\n,")
	}
	return result, nil
}

func transformArgs(s string) ([]float32, error) {
	sc := pathScanner{s: s}
	var args []float32
	for sc.more() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if !sc.done() {
		return nil, fmt.Errorf("unexpected %q", sc.s[sc.pos:])
	}
	return args, nil
}

func transformFunc(name string, a []float32) (scene.Affine, error) {
	argc := func(counts ...int) error {
		for _, n := range counts {
			if len(a) == n {
				return nil
			}
		}
		return fmt.Errorf("%s takes %v arguments, got %d", name, counts, len(a))
	}

	switch name {
	case "matrix":
		if err := argc(6); err != nil {
			return scene.Affine{}, err
		}
		return scene.Affine{A: a[0], B: a[2], C: a[4], D: a[1], E: a[3], F: a[5]}, nil

	case "translate":
		if err := argc(1, 2); err != nil {
			return scene.Affine{}, err
		}
		ty := float32(0)
		if len(a) == 2 {
			ty = a[1]
		}
		return scene.TranslateAffine(a[0], ty), nil

	case "scale":
		if err := argc(1, 2); err != nil {
			return scene.Affine{}, err
		}
		sy := a[0]
		if len(a) == 2 {
			sy = a[1]
		}
		return scene.ScaleAffine(a[0], sy), nil

	case "rotate":
		if err := argc(1, 3); err != nil {
			return scene.Affine{}, err
		}
		r := scene.RotateAffine(a[0] * math32.Pi / 180)
		if len(a) == 3 {
			r = scene.TranslateAffine(a[1], a[2]).Multiply(r).Multiply(scene.TranslateAffine(-a[1], -a[2]))
		}
		return r, nil

	case "skewX":
		if err := argc(1); err != nil {
			return scene.Affine{}, err
		}
		return scene.Affine{A: 1, B: math32.Tan(a[0] * math32.Pi / 180), E: 1}, nil

	case "skewY":
		if err := argc(1); err != nil {
			return scene.Affine{}, err
		}
		return scene.Affine{A: 1, D: math32.Tan(a[0] * math32.Pi / 180), E: 1}, nil
	}
	return scene.Affine{}, fmt.Errorf("unknown function %q", name)
}
