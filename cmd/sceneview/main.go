// Command sceneview renders an SVG scene on a background worker and
// presents it frame by frame, in 2D or through a free-look 3D camera.
//
// Usage:
//
//	sceneview [flags] scene.svg
//
// Without a window, frames are composited offscreen and written as PNG
// snapshots. Input comes from a replay script (-replay), file changes
// (-watch) and SIGINT, which quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/document"
	"github.com/gogpu/sceneview/frame"
	"github.com/gogpu/sceneview/input"
	"github.com/gogpu/sceneview/internal/config"
	"github.com/gogpu/sceneview/pipeline"
	"github.com/gogpu/sceneview/present"
	"github.com/gogpu/sceneview/ui"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "sceneview: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from an optional file and flags.
// Flags win over the file, the file over the defaults.
func loadConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("sceneview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		path    = fs.String("config", "", "TOML configuration file")
		jobs    = fs.Int("jobs", 0, "number of tile workers (1 builds sequentially)")
		threeD  = fs.Bool("3d", false, "start in 3D")
		watch   = fs.Bool("watch", false, "reload the scene when the file changes")
		replay  = fs.String("replay", "", "TOML input script to replay")
		out     = fs.String("out", "", "snapshot directory")
		every   = fs.Int("every", 0, "write every n-th frame (0 disables)")
		width   = fs.Int("width", 0, "drawable width")
		height  = fs.Int("height", 0, "drawable height")
		scale   = fs.Float64("scale", 0, "display scale factor")
		level   = fs.String("log-level", "", "log level (debug, info, warn, error)")
		version = fs.Bool("version", false, "print the version and exit")
	)
	fs.IntVar(jobs, "j", 0, "shorthand for -jobs")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if *version {
		fmt.Fprintf(stderr, "sceneview %s\n", sceneview.Version)
		return config.Config{}, flag.ErrHelp
	}

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			return config.Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "jobs", "j":
			cfg.Jobs = *jobs
		case "3d":
			cfg.ThreeD = *threeD
		case "watch":
			cfg.Watch = *watch
		case "replay":
			cfg.Output.Replay = *replay
		case "out":
			cfg.Output.Dir = *out
		case "every":
			cfg.Output.Every = *every
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "scale":
			cfg.ScaleFactor = float32(*scale)
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	if fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	if cfg.Input == "" {
		return config.Config{}, errors.New("no input scene")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}

	lvl, _ := cfg.Level()
	sceneview.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})))
	log := sceneview.Logger()

	doc, err := document.LoadFile(cfg.Input)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Scene bounds: %v\n%s\n", doc.Bounds, doc.Summary())

	queue := input.NewQueue()
	defer queue.Close()

	var source frame.InputSource = queue
	if cfg.Output.Replay != "" {
		script, loadErr := input.LoadScript(cfg.Output.Replay)
		if loadErr != nil {
			return loadErr
		}
		source = input.Join(queue, script)
	}

	var watcher *input.Watcher
	if cfg.Watch {
		if watcher, err = input.NewWatcher(cfg.Input, queue, input.DefaultSettle); err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, watcher.Close()) }()
	}

	viewport := image.Pt(cfg.Window.Width, cfg.Window.Height)
	builder := build.NewTileBuilder(cfg.Jobs)
	defer builder.Close()
	log.Info("tile builder ready", "strategy", builder.Strategy(), "workers", builder.Workers())

	proxy := pipeline.Spawn(doc, builder, viewport, pipeline.WithDiagnostics(stderr))
	// The worker must be gone before the builder is closed.
	defer proxy.Wait()

	demo := ui.New(ui.WithOpen(func() {
		go func() {
			if err := input.Reload(cfg.Input, queue); err != nil {
				log.Warn("open failed", "path", cfg.Input, "err", err)
			}
		}()
	}))
	presenter := present.New(viewport,
		present.WithOverlay(demo),
		present.WithSnapshots(cfg.Output.Dir, cfg.Output.Every))

	loop := frame.NewLoop(frame.Config{
		Viewport:    viewport,
		ScaleFactor: cfg.ScaleFactor,
		ThreeD:      cfg.ThreeD,
		Wait: frame.WaitPolicy{
			MinFrames:        cfg.Wait.MinFrames,
			BlockWhileMoving: cfg.Wait.BlockWhileMoving,
		},
	}, proxy, source, demo, presenter)

	signals, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	g, gctx := errgroup.WithContext(ctx)
	done, finish := context.WithCancel(gctx)
	defer finish()

	g.Go(func() error {
		defer finish()
		return loop.Run(gctx)
	})
	g.Go(func() error {
		select {
		case <-signals.Done():
			log.Info("interrupted")
			return queue.Push(frame.Event{Kind: frame.EventQuit})
		case <-done.Done():
			return nil
		}
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(done)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("done", "frames", loop.State().Frame, "snapshots", len(presenter.Written()))
	return nil
}
