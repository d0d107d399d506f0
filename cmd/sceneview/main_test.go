package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/sceneview"
	"github.com/gogpu/sceneview/internal/config"
)

const testScene = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64">
  <rect x="8" y="8" width="48" height="48" fill="#3366cc"/>
</svg>`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "sceneview.toml", "input = \"a.svg\"\njobs = 2\n[window]\nwidth = 320\n")

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg config.Config)
	}{
		{
			name: "positional input",
			args: []string{"b.svg"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Input != "b.svg" || cfg.Window != config.Default().Window {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "file",
			args: []string{"-config", file},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Input != "a.svg" || cfg.Jobs != 2 || cfg.Window.Width != 320 {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
		{
			name: "flags override file",
			args: []string{"-config", file, "-j", "1", "-3d", "-width", "100", "c.svg"},
			check: func(t *testing.T, cfg config.Config) {
				if cfg.Input != "c.svg" || cfg.Jobs != 1 || !cfg.ThreeD || cfg.Window.Width != 100 {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"bad flag", []string{"-nope"}},
		{"invalid jobs", []string{"-jobs", "-3", "a.svg"}},
		{"missing config", []string{"-config", "/nonexistent/sceneview.toml", "a.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("loadConfig() succeeded")
			}
		})
	}
}

func TestLoadConfig_Version(t *testing.T) {
	var out bytes.Buffer
	_, err := loadConfig([]string{"-version"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("loadConfig(-version) error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(out.String(), sceneview.Version) {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRun_Replay(t *testing.T) {
	defer sceneview.SetLogger(nil)

	dir := t.TempDir()
	scene := writeFile(t, dir, "scene.svg", testScene)
	script := writeFile(t, dir, "replay.toml", `
[[step]]
events = [{ kind = "key-down", key = "d" }]

[[step]]
events = [{ kind = "key-up", key = "d" }, { kind = "quit" }]
`)
	out := filepath.Join(dir, "frames")

	var stdout, stderr bytes.Buffer
	args := []string{
		"-replay", script,
		"-out", out,
		"-every", "1",
		"-width", "64",
		"-height", "64",
		"-log-level", "warn",
		scene,
	}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v\nstderr:\n%s", err, stderr.String())
	}

	if !strings.Contains(stdout.String(), "1 objects, 1 paints") {
		t.Errorf("stdout = %q, want the scene summary", stdout.String())
	}
	for _, name := range []string{"frame-00000.png", "frame-00001.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("snapshot %s: %v", name, err)
		}
	}
}

func TestRun_MissingScene(t *testing.T) {
	defer sceneview.SetLogger(nil)

	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.svg")}, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run() error = %v, want os.ErrNotExist", err)
	}
}
