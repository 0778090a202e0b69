// Package config loads engine settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/distmod/pkg/framework/debug"
)

// Config holds the engine settings.
type Config struct {
	// UnitName is matched case-insensitively as a substring of effect
	// names to find instances of the audio unit.
	UnitName string `yaml:"unit_name"`
	// Segment names the shared low-latency channel.
	Segment string `yaml:"segment"`
	// SyncRate is the maximum rate of rate-limited pushes, in Hz.
	SyncRate float64 `yaml:"sync_rate_hz"`
	// DistanceEpsilon is the minimum change for a distance reported by the
	// unit to be applied.
	DistanceEpsilon float64 `yaml:"distance_epsilon"`
	// PresetDir holds user preset documents. Empty disables user presets.
	PresetDir string `yaml:"preset_dir"`
	// StateSection is the key/value store section used for session state.
	StateSection string `yaml:"state_section"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		UnitName:        "distmod",
		Segment:         "distmod_shared",
		SyncRate:        20,
		DistanceEpsilon: 0.001,
		StateSection:    "distmod",
		LogLevel:        "info",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.UnitName) == "" {
		errs = append(errs, errors.New("unit_name must not be empty"))
	}
	if strings.TrimSpace(c.Segment) == "" {
		errs = append(errs, errors.New("segment must not be empty"))
	}
	if c.SyncRate <= 0 || c.SyncRate > 1000 {
		errs = append(errs, fmt.Errorf("sync_rate_hz %v out of range (0, 1000]", c.SyncRate))
	}
	if c.DistanceEpsilon < 0 {
		errs = append(errs, fmt.Errorf("distance_epsilon %v must not be negative", c.DistanceEpsilon))
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Interval returns the minimum time between rate-limited pushes.
func (c Config) Interval() time.Duration {
	return time.Duration(float64(time.Second) / c.SyncRate)
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() debug.LogLevel {
	level, _ := debug.ParseLevel(c.LogLevel)
	return level
}
