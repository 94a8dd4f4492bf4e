package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Round.Sticks != nil || cfg.Layout.Width != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[round]
sticks = 24
correct = 6
timer = 45.5
angle = 91.0

[layout]
width = 320.0
height-offset = 150.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Round.Sticks == nil || *cfg.Round.Sticks != 24 {
		t.Fatalf("unexpected sticks: %v", cfg.Round.Sticks)
	}
	if cfg.Round.Correct == nil || *cfg.Round.Correct != 6 {
		t.Fatalf("unexpected correct: %v", cfg.Round.Correct)
	}
	if cfg.Round.Timer == nil || *cfg.Round.Timer != 45.5 {
		t.Fatalf("unexpected timer: %v", cfg.Round.Timer)
	}
	if cfg.Round.Reward != nil {
		t.Fatalf("expected unset reward to stay nil")
	}

	layout := cfg.Layout.ApplyLayout(DefaultLayout())
	if layout.Width != 320 || layout.HeightOffset != 150 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if layout.Height != 50 || layout.Holder.Y != -100 {
		t.Fatalf("expected defaults kept, got %+v", layout)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[round\nsticks = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	if got := DefaultConfigPath(); got != filepath.Join(dir, "incense", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "incense", "incense.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
