package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/minifiber/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to true")
	}
	if d, err := cfg.SliceBudget(); err != nil || d != 16*time.Millisecond {
		t.Errorf("SliceBudget() = %v, %v", d, err)
	}
	if d, err := cfg.LowWaterMark(); err != nil || d != time.Millisecond {
		t.Errorf("LowWaterMark() = %v, %v", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	data := `{"scheduler":{"sliceBudget":"5ms"},"log":{"level":"debug"},"metrics":{"enabled":false}}`
	if err := os.WriteFile(filepath.Join(dir, "minifiber.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d, _ := cfg.SliceBudget(); d != 5*time.Millisecond {
		t.Errorf("SliceBudget() = %v, want 5ms", d)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Path() != filepath.Join(dir, "minifiber.json") {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	data := `
scheduler:
  idleInterval: 10ms
server:
  addr: ":8080"
snapshot:
  backend: s3
  bucket: snaps
  region: eu-west-1
`
	if err := os.WriteFile(filepath.Join(dir, "minifiber.yml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d, _ := cfg.IdleInterval(); d != 10*time.Millisecond {
		t.Errorf("IdleInterval() = %v, want 10ms", d)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Snapshot.Backend != "s3" || cfg.Snapshot.Bucket != "snaps" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); !errors.HasCode(err, "E141") {
		t.Errorf("Load() error = %v, want E141", err)
	}
	cfg, err := LoadOrNew(dir)
	if err != nil || cfg == nil {
		t.Fatalf("LoadOrNew() = %v, %v", cfg, err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "minifiber.json")
	_ = os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := LoadFile(bad); !errors.HasCode(err, "E120") {
		t.Errorf("LoadFile(bad json) error = %v, want E120", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "config.toml")); !errors.HasCode(err, "E123") {
		t.Errorf("LoadFile(toml) error = %v, want E123", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"bad duration", func(c *Config) { c.Scheduler.SliceBudget = "fast" }, "E121"},
		{"negative duration", func(c *Config) { c.Scheduler.LowWaterMark = "-1ms" }, "E121"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "E122"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "E122"},
		{"s3 without bucket", func(c *Config) { c.Snapshot.Backend = "s3" }, "E122"},
		{"bad backend", func(c *Config) { c.Snapshot.Backend = "ftp" }, "E122"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := New()
			cfg.Server.Addr = ":9999"
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo() error = %v", err)
			}
			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if loaded.Server.Addr != ":9999" {
				t.Errorf("Server.Addr = %q, want :9999", loaded.Server.Addr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %q, want JSON record", out)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
}
