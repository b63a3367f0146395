package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	body := `
[simulation]
tick_rate = "20ms"
seed = 42

[database]
enabled = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.TickRate != 20*time.Millisecond {
		t.Errorf("expected 20ms tick rate, got %v", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
	if !cfg.Database.Enabled {
		t.Error("expected database enabled")
	}
	if cfg.Simulation.WorldWidth != 1920 || cfg.Logging.Level != "info" {
		t.Errorf("defaults lost: width=%v level=%q", cfg.Simulation.WorldWidth, cfg.Logging.Level)
	}
	if cfg.Server.StartTime == 0 {
		t.Error("StartTime not stamped")
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "server.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Player.FireRate != 250*time.Millisecond {
		t.Errorf("expected 250ms fire rate, got %v", cfg.Player.FireRate)
	}
	if cfg.Database.Enabled {
		t.Error("shipped config should not require a database")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[simulation\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
}
