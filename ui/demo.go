package ui

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/frame"
	"golang.org/x/image/font/gofont/goregular"
)

// Colors of the widgets.
var (
	TextColor   = gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	WindowColor = gg.RGBA{R: 30.0 / 255, G: 30.0 / 255, B: 30.0 / 255, A: 225.0 / 255}
)

const fontSize = 18

var loadFont = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// Option configures a Demo.
type Option func(*Demo)

// WithOpen sets the action of the open button.
func WithOpen(fn func()) Option {
	return func(d *Demo) {
		d.onOpen = fn
	}
}

// Demo is the viewer UI. It implements frame.HitTester and draws itself
// onto a gg.Context.
type Demo struct {
	onOpen func()
	face   text.Face
}

// New creates the UI.
func New(opts ...Option) *Demo {
	d := &Demo{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Update lets the widgets consume ev and applies the result to t.
func (d *Demo) Update(viewport image.Point, t *frame.Toggles, ev *frame.UIEvent) {
	l := LayoutFor(viewport)

	if ev.ConsumeIn(l.EffectsButton) {
		t.EffectsPanelVisible = !t.EffectsPanelVisible
	}
	if ev.ConsumeIn(l.OpenButton) && d.onOpen != nil {
		d.onOpen()
	}
	if ev.ConsumeIn(l.ThreeDSwitch) {
		t.ThreeD = !t.ThreeD
	}
	if !t.EffectsPanelVisible {
		return
	}
	for i, r := range l.Effects {
		if ev.ConsumeIn(r) {
			v := Effect(i).toggle(t)
			*v = !*v
		}
	}
}

// Draw paints the widgets for the toggles t.
func (d *Demo) Draw(dc *gg.Context, t frame.Toggles) error {
	d.setFont(dc)
	l := LayoutFor(image.Pt(dc.Width(), dc.Height()))

	p := painter{dc: dc}
	p.button(l.EffectsButton, "Effects")
	p.button(l.OpenButton, "Open")
	p.fill(l.ThreeDSwitch, WindowColor)
	p.toggle(l.ThreeDSwitch, "2D", "3D", t.ThreeD)

	if t.EffectsPanelVisible {
		p.fill(l.EffectsWindow, WindowColor)
		values := [numEffects]bool{t.GammaCorrection, t.StemDarkening, t.SubpixelAA}
		for i, r := range l.Effects {
			p.label(Effect(i).String(), float64(l.EffectsWindow.Min.X+Padding), float64(r.Min.Y+ButtonTextOffset), false)
			p.toggle(r, "Off", "On", values[i])
		}
	}
	return p.err
}

func (d *Demo) setFont(dc *gg.Context) {
	if d.face == nil {
		src, err := loadFont()
		if err != nil {
			sceneview.Logger().Warn("ui font unavailable", "err", err)
			return
		}
		d.face = src.Face(fontSize)
	}
	dc.SetFont(d.face)
}

// painter keeps the first drawing error.
type painter struct {
	dc  *gg.Context
	err error
}

func (p *painter) path(r image.Rectangle, c gg.RGBA) {
	p.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	p.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func (p *painter) fill(r image.Rectangle, c gg.RGBA) {
	p.path(r, c)
	p.keep(p.dc.Fill())
}

func (p *painter) outline(r image.Rectangle, c gg.RGBA) {
	p.path(r.Inset(1), c)
	p.dc.SetLineWidth(1)
	p.keep(p.dc.Stroke())
}

func (p *painter) keep(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *painter) label(s string, x, y float64, inverted bool) {
	c := TextColor
	if inverted {
		c = gg.RGBA{A: 1}
	}
	p.dc.SetRGBA(c.R, c.G, c.B, c.A)
	p.dc.DrawString(s, x, y)
}

func (p *painter) button(r image.Rectangle, caption string) {
	p.fill(r, WindowColor)
	p.outline(r, TextColor)
	p.dc.SetRGBA(TextColor.R, TextColor.G, TextColor.B, TextColor.A)
	p.dc.DrawStringAnchored(caption, float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2), 0.5, 0.5)
}

// toggle draws a two-state switch with the active half highlighted.
func (p *painter) toggle(r image.Rectangle, off, on string, value bool) {
	p.outline(r, TextColor)

	half := rect(r.Min.X, r.Min.Y, SwitchHalfSize, r.Dy())
	if value {
		half = half.Add(image.Pt(SwitchHalfSize+1, 0))
	}
	p.fill(half, TextColor)

	offW, _ := p.dc.MeasureString(off)
	onW, _ := p.dc.MeasureString(on)
	y := float64(r.Min.Y + ButtonTextOffset)
	p.label(off, float64(r.Min.X+SwitchHalfSize/2)-offW/2, y, !value)
	p.label(on, float64(r.Min.X+SwitchHalfSize+SwitchHalfSize/2)-onW/2, y, value)
}
