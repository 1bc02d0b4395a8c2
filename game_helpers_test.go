package main

import (
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sheikhrachel/torus-gol/render"
	"github.com/sheikhrachel/torus-gol/utils"
)

func testConfig(t *testing.T) utils.Config {
	t.Helper()
	cfg := utils.DefaultConfig()
	cfg.Size = 16
	cfg.FrameRate = 0
	cfg.Renderer = utils.RendererNone
	cfg.Seed = 42
	return cfg
}

func TestRunStopsAtMaxGenerations(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.MaxGenerations = 10
	cfg.StatsFile = filepath.Join(dir, "stats.csv")
	cfg.SnapshotFile = filepath.Join(dir, "final.png")

	if err := run(context.Background(), cfg, log.New(io.Discard)); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(cfg.StatsFile)
	if err != nil {
		t.Fatal(err)
	}
	// header plus generations 0 through 10
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 12 {
		t.Fatalf("stats file has %d lines, want 12", len(lines))
	}
	if _, err := os.Stat(cfg.SnapshotFile); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := testConfig(t)
	cfg.FrameRate = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, log.New(io.Discard)) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after the context was cancelled")
	}
}

func TestSessionParallelMatchesSerial(t *testing.T) {
	serialCfg := testConfig(t)
	parallelCfg := testConfig(t)
	parallelCfg.UseParallel = true
	parallelCfg.Workers = 3
	parallelCfg.UseMemoryPool = false

	serial, err := initializeGame(serialCfg, log.New(io.Discard), mustCanvas(t, serialCfg))
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := initializeGame(parallelCfg, log.New(io.Discard), mustCanvas(t, parallelCfg))
	if err != nil {
		t.Fatal(err)
	}

	for range 8 {
		if err := serial.Step(); err != nil {
			t.Fatal(err)
		}
		if err := parallel.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if serial.universe.Grid().Hash() != parallel.universe.Grid().Hash() {
		t.Fatal("same seed produced different generations in serial and parallel mode")
	}
}

func TestSessionAutoRestartOnExtinction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Size = 1 // a lone live cell dies immediately, a dead one stays dead
	cfg.AutoRestart = true

	s, err := initializeGame(cfg, log.New(io.Discard), mustCanvas(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	restarted := false
	for range 6 {
		before := s.universe
		generation := s.generation
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		if s.universe == before {
			continue
		}
		restarted = true
		// the new grid is not advanced in the frame that created it
		if got := s.universe.Grid().Generation(); got != 0 {
			t.Fatalf("reseeded grid is at generation %d, want 0", got)
		}
		if s.generation != generation+1 || s.lastRestartGen != s.generation {
			t.Fatalf("generation = %d, lastRestartGen = %d, want both %d", s.generation, s.lastRestartGen, generation+1)
		}
	}
	if !restarted {
		t.Fatal("extinct universe was never reseeded")
	}
}

func TestCheckRestartConditions(t *testing.T) {
	tests := []struct {
		name           string
		interval       int
		generation     int
		lastRestartGen int
		stagnant       int
		want           string
	}{
		{"active", 3, 4, 0, 0, ""},
		{"refresh due", 3, 6, 0, 0, "periodic refresh"},
		{"refresh counted from last restart", 3, 8, 5, 0, "periodic refresh"},
		{"not at restart frame", 3, 5, 5, 0, ""},
		{"refresh disabled", 0, 6, 0, 0, ""},
		{"stagnation first", 3, 6, 0, 5, "stagnation detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.RefreshInterval = tt.interval
			s, err := initializeGame(cfg, log.New(io.Discard), mustCanvas(t, cfg))
			if err != nil {
				t.Fatal(err)
			}
			s.stats.ActiveCells = 10
			s.generation = tt.generation
			s.lastRestartGen = tt.lastRestartGen
			s.stagnantCount = tt.stagnant

			restart, reason := s.checkRestartConditions()
			if restart != (tt.want != "") || reason != tt.want {
				t.Fatalf("checkRestartConditions() = %v, %q, want %q", restart, reason, tt.want)
			}
		})
	}
}

func TestSessionPeriodicRefresh(t *testing.T) {
	cfg := testConfig(t)
	cfg.AutoRestart = true
	cfg.StagnationThreshold = 0
	cfg.RefreshInterval = 3

	s, err := initializeGame(cfg, log.New(io.Discard), mustCanvas(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	first := s.universe
	for range 3 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if s.universe != first {
		t.Fatal("universe replaced before the refresh interval elapsed")
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if s.universe == first || s.lastRestartGen != 4 {
		t.Fatalf("no refresh at generation 3 (lastRestartGen = %d)", s.lastRestartGen)
	}
}

func TestSessionDrawsImageCanvasOnlyForSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.DeadColor = "black"
	cfg.Render.AliveColor = "black"

	canvas := render.NewImageCanvas()
	s, err := initializeGame(cfg, log.New(io.Discard), canvas)
	if err != nil {
		t.Fatal(err)
	}
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	black := color.RGBA{0, 0, 0, 0xff}

	s.Render()
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	s.Render()
	// (2,2) lies inside cell (0,0)
	if got := canvas.Image().RGBAAt(2, 2); got != white {
		t.Fatalf("cell pixel = %v after Render, want the untouched background", got)
	}

	s.config.SnapshotFile = filepath.Join(t.TempDir(), "final.png")
	if err := s.finish(); err != nil {
		t.Fatal(err)
	}
	if got := canvas.Image().RGBAAt(2, 2); got != black {
		t.Fatalf("cell pixel = %v after finish, want %v", got, black)
	}
	if _, err := os.Stat(s.config.SnapshotFile); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
}

func mustCanvas(t *testing.T, cfg utils.Config) render.Canvas {
	t.Helper()
	c, err := newCanvas(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
