// Package present composites built frames for display and writes them
// out as PNG snapshots.
package present

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/frame"
	"golang.org/x/image/draw"
)

// Background is the color behind the scene.
var Background = color.RGBA{R: 32, G: 32, B: 32, A: 255}

// Overlay draws on top of the scene.
type Overlay interface {
	Draw(dc *gg.Context, t frame.Toggles) error
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithOverlay draws o over every frame.
func WithOverlay(o Overlay) Option {
	return func(p *Presenter) {
		p.overlay = o
	}
}

// WithSnapshots writes every n-th frame into dir. n <= 0 writes none.
func WithSnapshots(dir string, n int) Option {
	return func(p *Presenter) {
		p.dir = dir
		p.every = n
	}
}

// Presenter implements frame.Presenter on an offscreen framebuffer.
type Presenter struct {
	size    image.Point
	overlay Overlay
	dir     string
	every   int

	last    image.Image
	written []string

	effects     frame.Toggles
	effectsSeen bool
}

// New creates a presenter for a framebuffer of the given size.
func New(size image.Point, opts ...Option) *Presenter {
	p := &Presenter{size: size}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resize changes the framebuffer size.
func (p *Presenter) Resize(size image.Point) {
	p.size = size
}

// Present composites f and writes a snapshot if one is due.
func (p *Presenter) Present(ctx context.Context, f frame.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.size.X <= 0 || p.size.Y <= 0 {
		return fmt.Errorf("present: invalid framebuffer size %v", p.size)
	}

	fb := image.NewRGBA(image.Rectangle{Max: p.size})
	draw.Draw(fb, fb.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	if f.Artifact != nil && f.Artifact.Frame != nil {
		src := f.Artifact.Frame.ToImage()
		if src.Bounds().Size() == p.size {
			draw.Draw(fb, fb.Bounds(), src, image.Point{}, draw.Over)
		} else {
			// A resize arrived after this frame was built.
			draw.ApproxBiLinear.Scale(fb, fb.Bounds(), src, src.Bounds(), draw.Over, nil)
		}
	}

	dc := gg.NewContextForImage(fb)
	defer dc.Close()
	if p.overlay != nil {
		if err := p.overlay.Draw(dc, f.Toggles); err != nil {
			return fmt.Errorf("present: overlay: %w", err)
		}
	}
	p.last = dc.Image()
	p.noteEffects(f.Toggles)

	log := sceneview.Logger()
	if f.Artifact != nil {
		log.Debug("frame presented",
			"frame", f.Number,
			"build", f.Artifact.BuildTime,
			"objects", f.Artifact.Objects,
			"tiles", f.Artifact.Stats.TilesRendered)
	}

	if p.every > 0 && f.Number%uint64(p.every) == 0 {
		name := filepath.Join(p.dir, fmt.Sprintf("frame-%05d.png", f.Number))
		if err := os.MkdirAll(p.dir, 0o755); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		if err := dc.SavePNG(name); err != nil {
			return fmt.Errorf("present: write %s: %w", name, err)
		}
		p.written = append(p.written, name)
		log.Info("snapshot written", "path", name)
	}
	return nil
}

// Last returns the most recently presented framebuffer.
func (p *Presenter) Last() image.Image {
	return p.last
}

// Written returns the snapshot files written so far.
func (p *Presenter) Written() []string {
	return p.written
}

// Effects returns the effect switches of the last presented frame.
func (p *Presenter) Effects() frame.Toggles {
	return p.effects
}

// noteEffects logs a change of the effect switches. Only stem darkening
// alters the built frame; gamma correction and subpixel AA are recorded.
func (p *Presenter) noteEffects(t frame.Toggles) {
	cur := frame.Toggles{
		GammaCorrection: t.GammaCorrection,
		StemDarkening:   t.StemDarkening,
		SubpixelAA:      t.SubpixelAA,
	}
	if p.effectsSeen && cur == p.effects {
		return
	}
	p.effects, p.effectsSeen = cur, true
	sceneview.Logger().Debug("effects changed",
		"gamma_correction", cur.GammaCorrection,
		"stem_darkening", cur.StemDarkening,
		"subpixel_aa", cur.SubpixelAA)
}
