// Package ui is the viewer's demo UI: an effects button, an open button,
// a 2D/3D switch and an effects window with three switches, all anchored
// to the bottom left corner of the framebuffer.
package ui

import (
	"image"

	"github.com/gogpu/sceneview/frame"
)

// Widget metrics, in framebuffer pixels.
const (
	Padding          = 12
	IconSize         = 48
	ButtonWidth      = Padding*2 + IconSize
	ButtonHeight     = Padding*2 + IconSize
	ButtonTextOffset = Padding + 36

	SwitchHalfSize = 96
	SwitchSize     = SwitchHalfSize*2 + 1

	EffectsWindowWidth  = 550
	EffectsWindowHeight = ButtonHeight*3 + Padding*4
)

// Effect indexes the switches of the effects window.
type Effect int

const (
	GammaCorrection Effect = iota
	StemDarkening
	SubpixelAA
	numEffects
)

var effectLabels = [numEffects]string{
	GammaCorrection: "Gamma Correction",
	StemDarkening:   "Stem Darkening",
	SubpixelAA:      "Subpixel AA",
}

func (e Effect) String() string {
	if e >= 0 && e < numEffects {
		return effectLabels[e]
	}
	return "unknown"
}

func (e Effect) toggle(t *frame.Toggles) *bool {
	switch e {
	case GammaCorrection:
		return &t.GammaCorrection
	case StemDarkening:
		return &t.StemDarkening
	default:
		return &t.SubpixelAA
	}
}

// Layout is where every widget sits for one framebuffer size.
type Layout struct {
	EffectsButton image.Rectangle
	OpenButton    image.Rectangle
	ThreeDSwitch  image.Rectangle
	EffectsWindow image.Rectangle
	Effects       [numEffects]image.Rectangle
}

// LayoutFor computes the layout for a framebuffer of the given size.
func LayoutFor(viewport image.Point) Layout {
	bottom := viewport.Y - Padding
	buttonY := bottom - ButtonHeight

	var l Layout
	l.EffectsButton = rect(Padding, buttonY, ButtonWidth, ButtonHeight)
	l.OpenButton = rect(Padding+ButtonWidth+Padding, buttonY, ButtonWidth, ButtonHeight)
	l.ThreeDSwitch = rect(Padding+(ButtonWidth+Padding)*2, buttonY, SwitchSize, ButtonHeight)

	windowY := bottom - (ButtonHeight + Padding + EffectsWindowHeight)
	l.EffectsWindow = rect(Padding, windowY, EffectsWindowWidth, EffectsWindowHeight)
	switchX := Padding + EffectsWindowWidth - (SwitchSize + Padding)
	for i := range l.Effects {
		y := windowY + Padding + (ButtonHeight+Padding)*i
		l.Effects[i] = rect(switchX, y, SwitchSize, ButtonHeight)
	}
	return l
}

func rect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
