package build

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/document"
)

// ErrEmptyViewport is returned when the scene view box has no area.
var ErrEmptyViewport = errors.New("build: empty viewport")

// Builder builds a scene with the given options.
type Builder interface {
	Build(ctx context.Context, doc *document.Scene, opts Options) (*Artifact, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, doc *document.Scene, opts Options) (*Artifact, error)

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context, doc *document.Scene, opts Options) (*Artifact, error) {
	return f(ctx, doc, opts)
}

// Strategy is how a TileBuilder spreads tiles across goroutines.
type Strategy uint8

const (
	// Parallel renders tiles on a pool of worker goroutines.
	Parallel Strategy = iota
	// Sequential renders tiles one after another on a single worker.
	Sequential
)

// String returns a human-readable name for the strategy.
func (s Strategy) String() string {
	switch s {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	default:
		return "unknown"
	}
}

// StrategyFor maps the jobs setting to a strategy: exactly one job builds
// sequentially, anything else (including unset) in parallel.
func StrategyFor(jobs int) Strategy {
	if jobs == 1 {
		return Sequential
	}
	return Parallel
}

// TileBuilder builds scenes with gg's tile-based scene renderer.
//
// The strategy is fixed at construction. A TileBuilder is not safe for
// concurrent use; the scene worker is its only caller.
type TileBuilder struct {
	strategy Strategy
	workers  int
	renderer *scene.Renderer
}

// NewTileBuilder creates a builder for the given jobs setting.
// jobs <= 0 uses GOMAXPROCS workers.
func NewTileBuilder(jobs int) *TileBuilder {
	b := &TileBuilder{strategy: StrategyFor(jobs)}
	switch {
	case b.strategy == Sequential:
		b.workers = 1
	case jobs > 1:
		b.workers = jobs
	default:
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b
}

// Strategy returns the build strategy.
func (b *TileBuilder) Strategy() Strategy {
	return b.strategy
}

// Workers returns the number of tile workers.
func (b *TileBuilder) Workers() int {
	return b.workers
}

// Build renders doc into a new frame.
func (b *TileBuilder) Build(ctx context.Context, doc *document.Scene, opts Options) (*Artifact, error) {
	if doc == nil {
		return nil, fmt.Errorf("build: nil scene")
	}
	w, h := doc.ViewportSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyViewport, w, h)
	}

	if b.renderer == nil {
		b.renderer = scene.NewRenderer(w, h, scene.WithWorkers(b.workers))
	} else {
		b.renderer.Resize(w, h)
	}

	art := &Artifact{Options: opts}
	gs := scene.NewScene()
	for i := range doc.Objects {
		if encodeObject(gs, doc, &doc.Objects[i], opts) {
			art.Objects++
		} else {
			art.Culled++
		}
	}

	frame := gg.NewPixmap(w, h)
	art.Frame = frame
	// The renderer skips rasterizing an empty encoding but still composites
	// its tile buffers, which hold the previous build.
	if art.Objects > 0 {
		if err := b.renderer.RenderWithContext(ctx, frame, gs); err != nil {
			return nil, fmt.Errorf("build: render: %w", err)
		}
		art.Stats = b.renderer.Stats()
	}

	sceneview.Logger().Debug("scene built",
		"transform", opts.Kind,
		"objects", art.Objects,
		"culled", art.Culled,
		"tiles", art.Stats.TilesRendered,
		"raster", art.Stats.TimeRaster)
	return art, nil
}

// Close releases the tile worker pool.
func (b *TileBuilder) Close() {
	if b.renderer != nil {
		b.renderer.Close()
		b.renderer = nil
	}
}

// encodeObject records one object into gs. It reports false when the
// object was culled.
func encodeObject(gs *scene.Scene, doc *document.Scene, o *document.Object, opts Options) bool {
	path := o.Path
	strokeScale := float32(1)
	if opts.Kind == Perspective3D {
		projected, scale, ok := projectPath(path, opts.Perspective)
		if !ok {
			return false
		}
		path, strokeScale = projected, scale
	}
	shape := scene.NewPathShape(path)
	identity := scene.IdentityAffine()

	if p, ok := doc.Paint(o.Fill); ok {
		brush := scene.SolidBrush(p.Color)
		gs.Fill(o.Rule, identity, brush, shape)
		if width := dilationWidth(opts.Dilation); width > 0 {
			style := scene.DefaultStrokeStyle()
			style.Width = width
			style.Join = scene.LineJoinRound
			gs.Stroke(style, identity, brush, shape)
		}
	}
	if p, ok := doc.Paint(o.Stroke); ok && o.StrokeWidth > 0 {
		style := scene.DefaultStrokeStyle()
		style.Width = o.StrokeWidth * strokeScale
		gs.Stroke(style, identity, scene.SolidBrush(p.Color), shape)
	}
	return true
}

// dilationWidth converts a per-axis dilation into a stroke width. A
// stroke grows the outline by half its width on each side, so the sum of
// both axes approximates dilating by the mean on every side.
func dilationWidth(d mgl32.Vec2) float32 {
	return d[0] + d[1]
}
