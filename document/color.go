package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// namedColors covers the CSS basic color keywords.
var namedColors = map[string]gg.RGBA{
	"black":   gg.Hex("000000"),
	"silver":  gg.Hex("c0c0c0"),
	"gray":    gg.Hex("808080"),
	"grey":    gg.Hex("808080"),
	"white":   gg.Hex("ffffff"),
	"maroon":  gg.Hex("800000"),
	"red":     gg.Hex("ff0000"),
	"purple":  gg.Hex("800080"),
	"fuchsia": gg.Hex("ff00ff"),
	"green":   gg.Hex("008000"),
	"lime":    gg.Hex("00ff00"),
	"olive":   gg.Hex("808000"),
	"yellow":  gg.Hex("ffff00"),
	"navy":    gg.Hex("000080"),
	"blue":    gg.Hex("0000ff"),
	"teal":    gg.Hex("008080"),
	"aqua":    gg.Hex("00ffff"),
	"orange":  gg.Hex("ffa500"),
}

// parsePaint parses a fill or stroke value.
//
// Paint servers ("url(#id)") are not supported; their fallback color is
// used when present, otherwise the paint is treated as none.
func parsePaint(s string) (paintSpec, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "none", "transparent":
		return paintSpec{none: true}, nil
	case "currentColor":
		return paintSpec{color: gg.Black}, nil
	}

	if strings.HasPrefix(s, "url(") {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return paintSpec{}, fmt.Errorf("document: invalid paint %q", s)
		}
		fallback := strings.TrimSpace(s[end+1:])
		if fallback == "" {
			return paintSpec{none: true}, nil
		}
		return parsePaint(fallback)
	}

	c, err := parseColor(s)
	if err != nil {
		return paintSpec{}, err
	}
	return paintSpec{color: c}, nil
}

func parseColor(s string) (gg.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 5, 7, 9:
			if _, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
				return gg.Hex(s), nil
			}
		}
		return gg.RGBA{}, fmt.Errorf("document: invalid color %q", s)
	}

	if inner, ok := strings.CutPrefix(s, "rgb("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return gg.RGBA{}, fmt.Errorf("document: invalid color %q", s)
		}
		parts := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' })
		if len(parts) != 3 {
			return gg.RGBA{}, fmt.Errorf("document: invalid color %q", s)
		}
		var ch [3]float64
		for i, p := range parts {
			pct := strings.HasSuffix(p, "%")
			v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			if err != nil {
				return gg.RGBA{}, fmt.Errorf("document: invalid color %q", s)
			}
			if pct {
				v = v / 100
			} else {
				v = v / 255
			}
			ch[i] = min(max(v, 0), 1)
		}
		return gg.RGB(ch[0], ch[1], ch[2]), nil
	}

	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	return gg.RGBA{}, fmt.Errorf("document: unknown color %q", s)
}
