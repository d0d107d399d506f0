package ui

import (
	"image"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/sceneview/frame"
)

var viewport = image.Pt(1067, 800)

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestLayoutFor(t *testing.T) {
	l := LayoutFor(viewport)

	tests := []struct {
		name string
		got  image.Rectangle
		want image.Rectangle
	}{
		{"effects button", l.EffectsButton, image.Rect(12, 716, 84, 788)},
		{"open button", l.OpenButton, image.Rect(96, 716, 168, 788)},
		{"3d switch", l.ThreeDSwitch, image.Rect(180, 716, 373, 788)},
		{"effects window", l.EffectsWindow, image.Rect(12, 440, 562, 704)},
		{"gamma switch", l.Effects[GammaCorrection], image.Rect(357, 452, 550, 524)},
		{"subpixel switch", l.Effects[SubpixelAA], image.Rect(357, 620, 550, 692)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDemo_Update(t *testing.T) {
	l := LayoutFor(viewport)

	tests := []struct {
		name     string
		start    frame.Toggles
		at       image.Point
		want     frame.Toggles
		consumed bool
	}{
		{
			name:     "effects button opens the window",
			at:       center(l.EffectsButton),
			want:     frame.Toggles{EffectsPanelVisible: true},
			consumed: true,
		},
		{
			name:     "3d switch",
			at:       center(l.ThreeDSwitch),
			want:     frame.Toggles{ThreeD: true},
			consumed: true,
		},
		{
			name:     "effect switches are inert while hidden",
			at:       center(l.Effects[StemDarkening]),
			consumed: false,
		},
		{
			name:     "stem darkening switch",
			start:    frame.Toggles{EffectsPanelVisible: true},
			at:       center(l.Effects[StemDarkening]),
			want:     frame.Toggles{EffectsPanelVisible: true, StemDarkening: true},
			consumed: true,
		},
		{
			name:     "gamma switch off",
			start:    frame.Toggles{EffectsPanelVisible: true, GammaCorrection: true},
			at:       center(l.Effects[GammaCorrection]),
			want:     frame.Toggles{EffectsPanelVisible: true},
			consumed: true,
		},
		{
			name:     "miss",
			start:    frame.Toggles{ThreeD: true},
			at:       image.Pt(900, 100),
			want:     frame.Toggles{ThreeD: true},
			consumed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toggles := tt.start
			ev := frame.PointerDown(tt.at)
			New().Update(viewport, &toggles, &ev)

			if toggles != tt.want {
				t.Errorf("toggles = %+v, want %+v", toggles, tt.want)
			}
			if consumed := ev.IsNone(); consumed != tt.consumed {
				t.Errorf("consumed = %v, want %v", consumed, tt.consumed)
			}
		})
	}
}

func TestDemo_UpdateNoEvent(t *testing.T) {
	toggles := frame.Toggles{EffectsPanelVisible: true}
	var ev frame.UIEvent
	New().Update(viewport, &toggles, &ev)
	if toggles != (frame.Toggles{EffectsPanelVisible: true}) {
		t.Errorf("toggles changed without an event: %+v", toggles)
	}
}

func TestDemo_Open(t *testing.T) {
	opened := 0
	d := New(WithOpen(func() { opened++ }))

	var toggles frame.Toggles
	ev := frame.PointerDown(center(LayoutFor(viewport).OpenButton))
	d.Update(viewport, &toggles, &ev)

	if opened != 1 {
		t.Errorf("open called %d times, want 1", opened)
	}
	if !ev.IsNone() {
		t.Error("open button did not consume the event")
	}
	if toggles != (frame.Toggles{}) {
		t.Errorf("open button changed toggles: %+v", toggles)
	}
}

func TestDemo_Draw(t *testing.T) {
	dc := gg.NewContext(viewport.X, viewport.Y)
	defer dc.Close()

	toggles := frame.Toggles{EffectsPanelVisible: true, ThreeD: true}
	if err := New().Draw(dc, toggles); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	img := dc.Image()
	l := LayoutFor(viewport)
	for name, p := range map[string]image.Point{
		"effects button": center(l.EffectsButton),
		"effects window": image.Pt(l.EffectsWindow.Min.X+4, l.EffectsWindow.Min.Y+4),
	} {
		if _, _, _, a := img.At(p.X, p.Y).RGBA(); a == 0 {
			t.Errorf("%s at %v not painted", name, p)
		}
	}
	if _, _, _, a := img.At(900, 100).RGBA(); a != 0 {
		t.Error("pixel outside every widget was painted")
	}
}

func TestEffect_String(t *testing.T) {
	if got := StemDarkening.String(); got != "Stem Darkening" {
		t.Errorf("StemDarkening.String() = %q", got)
	}
	if got := Effect(7).String(); got != "unknown" {
		t.Errorf("Effect(7).String() = %q, want unknown", got)
	}
}
