package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/vango-dev/minifiber/internal/errors"
)

// FileNames are the configuration files Load looks for, in order.
var FileNames = []string{"minifiber.json", "minifiber.yaml", "minifiber.yml"}

const (
	// DefaultAddr is the default dev server address.
	DefaultAddr = "localhost:3000"

	// DefaultSnapshotDir is the default directory of the file snapshot backend.
	DefaultSnapshotDir = "snapshots"
)

// Config is the complete configuration.
type Config struct {
	// Scheduler controls slice timing.
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Log controls the slog handler.
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics controls Prometheus collection.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Server contains dev server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Snapshot selects where rendered HTML is stored.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// SchedulerConfig holds durations in Go syntax ("16ms").
type SchedulerConfig struct {
	// SliceBudget is the length of one idle slice.
	SliceBudget string `json:"sliceBudget,omitempty" yaml:"sliceBudget,omitempty"`

	// LowWaterMark is the remaining time below which a slice yields.
	LowWaterMark string `json:"lowWaterMark,omitempty" yaml:"lowWaterMark,omitempty"`

	// IdleInterval is the pause between idle slices.
	IdleInterval string `json:"idleInterval,omitempty" yaml:"idleInterval,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// ServerConfig configures the dev server.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// SnapshotConfig selects the snapshot backend.
type SnapshotConfig struct {
	// Backend is "file" or "s3".
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Dir is the file backend directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket, Prefix, Region and Endpoint configure the s3 backend.
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load finds and loads the first configuration file in dir.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No minifiber.json or minifiber.yaml found in " + dir).
		WithSuggestion("Create one or pass --config")
}

// LoadOrNew is Load, falling back to defaults when no file exists.
func LoadOrNew(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E141") {
		return New(), nil
	}
	return cfg, err
}

// LoadFile loads a configuration file. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithDetail(path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	switch format {
	case "json":
		err = json.Unmarshal(data, cfg)
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid " + strings.ToUpper(format))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", errors.New("E123").WithDetail(path)
	}
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the config to path in the format of its extension.
func (c *Config) SaveTo(path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from or saved to.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Scheduler.SliceBudget == "" {
		c.Scheduler.SliceBudget = "16ms"
	}
	if c.Scheduler.LowWaterMark == "" {
		c.Scheduler.LowWaterMark = "1ms"
	}
	if c.Scheduler.IdleInterval == "" {
		c.Scheduler.IdleInterval = "4ms"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "minifiber"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "file"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks values the defaults cannot fix.
func (c *Config) Validate() error {
	for _, d := range []struct {
		name, value string
	}{
		{"scheduler.sliceBudget", c.Scheduler.SliceBudget},
		{"scheduler.lowWaterMark", c.Scheduler.LowWaterMark},
		{"scheduler.idleInterval", c.Scheduler.IdleInterval},
	} {
		if _, err := parseDuration(d.name, d.value); err != nil {
			return err
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E122").WithDetailf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E122").WithDetailf("log.format %q must be text or json", c.Log.Format)
	}

	switch c.Snapshot.Backend {
	case "file":
	case "s3":
		if c.Snapshot.Bucket == "" || c.Snapshot.Region == "" {
			return errors.New("E122").WithDetail("snapshot.bucket and snapshot.region are required for the s3 backend")
		}
	default:
		return errors.New("E122").WithDetailf("snapshot.backend %q must be file or s3", c.Snapshot.Backend)
	}
	return nil
}

func parseDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.New("E121").WithDetailf("%s: %q", name, value).Wrap(err)
	}
	if d < 0 {
		return 0, errors.New("E121").WithDetailf("%s must not be negative", name)
	}
	return d, nil
}

// SliceBudget returns the parsed slice budget.
func (c *Config) SliceBudget() (time.Duration, error) {
	return parseDuration("scheduler.sliceBudget", c.Scheduler.SliceBudget)
}

// LowWaterMark returns the parsed yield threshold.
func (c *Config) LowWaterMark() (time.Duration, error) {
	return parseDuration("scheduler.lowWaterMark", c.Scheduler.LowWaterMark)
}

// IdleInterval returns the parsed idle interval.
func (c *Config) IdleInterval() (time.Duration, error) {
	return parseDuration("scheduler.idleInterval", c.Scheduler.IdleInterval)
}
