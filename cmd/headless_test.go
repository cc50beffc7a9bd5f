package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/olivierh59500/node-field/internal/config"
)

func headlessConfig() *config.Config {
	cfg := config.Default()
	cfg.Window.Width = 400
	cfg.Window.Height = 300
	cfg.Nodes.Count = 8
	cfg.Nodes.Seed = 11
	return cfg
}

func TestRunHeadless(t *testing.T) {
	sum, err := RunHeadless(context.Background(), headlessConfig(), 120, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Ticks != 120 {
		t.Errorf("ticks = %d, want 120", sum.Ticks)
	}
	if sum.Nodes != 8 || sum.InBounds != 8 {
		t.Errorf("nodes=%d in bounds=%d", sum.Nodes, sum.InBounds)
	}
	if sum.Circles != 8 {
		t.Errorf("last frame circles = %d, want 8", sum.Circles)
	}
}

func TestRunHeadlessAutopilot(t *testing.T) {
	cfg := headlessConfig()
	cfg.Autopilot.Enabled = true
	cfg.Pointer.Radius = 1000

	sum, err := RunHeadless(context.Background(), cfg, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sum.InBounds != sum.Nodes {
		t.Errorf("in bounds = %d of %d", sum.InBounds, sum.Nodes)
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := RunHeadless(ctx, headlessConfig(), 1000, 0)
	if err != nil {
		t.Fatalf("cancel should still summarise: %v", err)
	}
	if sum.Ticks >= 1000 {
		t.Errorf("ticks = %d, cancel ignored", sum.Ticks)
	}
}

func TestRunHeadlessRejectsBadTuning(t *testing.T) {
	cfg := headlessConfig()
	cfg.Tuning.Near = -1
	if _, err := RunHeadless(context.Background(), cfg, 1, 0); err == nil {
		t.Error("expected tuning error")
	}
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodefield.toml")

	c := configInitCmd()
	c.SetArgs([]string{path})
	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tuning != config.DefaultTuning() {
		t.Errorf("tuning = %+v", cfg.Tuning)
	}
}
