package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if lvl, _ := cfg.Level(); lvl != slog.LevelInfo {
		t.Errorf("Level() = %v, want INFO", lvl)
	}
	if want := (Wait{MinFrames: 2, BlockWhileMoving: true}); cfg.Wait != want {
		t.Errorf("Default().Wait = %+v, want %+v", cfg.Wait, want)
	}
}

func TestDecode(t *testing.T) {
	const src = `
input = "tiger.svg"
jobs = 4
threed = true
log_level = "debug"

[window]
width = 640
height = 480

[wait]
block_while_moving = false

[output]
every = 10
`
	got, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := Default()
	want.Input = "tiger.svg"
	want.Jobs = 4
	want.ThreeD = true
	want.LogLevel = "debug"
	want.Window = Window{Width: 640, Height: 480}
	want.Wait.BlockWhileMoving = false
	want.Output.Every = 10
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{"syntax", "jobs = \n", false},
		{"unknown key", "colour = \"red\"\n", false},
		{"wrong type", "jobs = \"four\"\n", false},
		{"negative jobs", "jobs = -1\n", true},
		{"zero scale", "scale_factor = 0.0\n", true},
		{"empty window", "[window]\nwidth = 0\n", true},
		{"bad level", "log_level = \"loud\"\n", true},
		{"negative every", "[output]\nevery = -2\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("Decode() succeeded")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(%v, ErrInvalid) = %v, want %v", err, got, tt.invalid)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sceneview.toml")
	if err := os.WriteFile(path, []byte("jobs = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 1 || cfg.Window != Default().Window {
		t.Errorf("Load() = %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() of a missing file error = %v, want os.ErrNotExist", err)
	}
}
