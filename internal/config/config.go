// Package config loads the viewer configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config is the viewer configuration.
type Config struct {
	// Input is the SVG scene to open.
	Input string `toml:"input"`

	// Jobs is the number of tile workers. 0 uses every CPU and 1 builds
	// sequentially.
	Jobs int `toml:"jobs"`

	// ThreeD starts the viewer in 3D mode.
	ThreeD bool `toml:"threed"`

	// ScaleFactor is drawable pixels per window unit.
	ScaleFactor float32 `toml:"scale_factor"`

	LogLevel string `toml:"log_level"`

	// Watch reloads the scene when the input file changes.
	Watch bool `toml:"watch"`

	Window Window `toml:"window"`
	Wait   Wait   `toml:"wait"`
	Output Output `toml:"output"`
}

// Window is the initial drawable size.
type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Wait configures when the frame loop blocks for input.
type Wait struct {
	MinFrames        uint64 `toml:"min_frames"`
	BlockWhileMoving bool   `toml:"block_while_moving"`
}

// Output configures snapshots and replayed input.
type Output struct {
	// Dir receives PNG snapshots.
	Dir string `toml:"dir"`

	// Every writes every n-th frame. 0 disables snapshots.
	Every int `toml:"every"`

	// Replay is a TOML input script to play instead of interactive input.
	Replay string `toml:"replay"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScaleFactor: 1,
		LogLevel:    "info",
		Window:      Window{Width: 1067, Height: 800},
		Wait:        Wait{MinFrames: 2, BlockWhileMoving: true},
		Output:      Output{Dir: "frames"},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a configuration over the defaults. Unknown keys are errors.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value is in range.
func (c Config) Validate() error {
	switch {
	case c.Jobs < 0:
		return fmt.Errorf("%w: jobs = %d", ErrInvalid, c.Jobs)
	case c.ScaleFactor <= 0:
		return fmt.Errorf("%w: scale_factor = %v", ErrInvalid, c.ScaleFactor)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window = %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Output.Every < 0:
		return fmt.Errorf("%w: output.every = %d", ErrInvalid, c.Output.Every)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level = %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}
