package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7420 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7420)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("Telemetry.Prometheus should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadConfigNoFile(t *testing.T) {
	t.Setenv("GRIDMESH_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Port != 7420 {
		t.Errorf("API.Port = %d, want default 7420", cfg.API.Port)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("GRIDMESH_HOME", home)

	content := "[api]\nhost = \"0.0.0.0\"\nport = 9000\n\n[telemetry]\nprometheus = false\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 9000 {
		t.Errorf("API = %s:%d, want 0.0.0.0:9000", cfg.API.Host, cfg.API.Port)
	}
	if cfg.Telemetry.Prometheus {
		t.Error("Telemetry.Prometheus should be overridden to false")
	}
	if cfg.Storage.Dir != home {
		t.Errorf("Storage.Dir = %q, want %q (defaulted)", cfg.Storage.Dir, home)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	t.Setenv("GRIDMESH_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Node.ID = "node-test"
	cfg.API.Port = 8123

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.Node.ID != "node-test" || got.API.Port != 8123 {
		t.Errorf("reloaded = (%q, %d), want (node-test, 8123)", got.Node.ID, got.API.Port)
	}
}
