// Package config provides configuration file support for debrief.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/fsutil"
	"github.com/dcsl-project/debrief/pkg/logging"
	"github.com/dcsl-project/debrief/pkg/webhook"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "debrief.yaml"

// Config represents the debrief configuration.
type Config struct {
	DebriefingDir string         `yaml:"debriefing_dir"`
	PollInterval  string         `yaml:"poll_interval"`
	Extension     string         `yaml:"extension"`
	Notify        bool           `yaml:"notify"`
	RequireStable bool           `yaml:"require_stable"`
	DecodeTimeout string         `yaml:"decode_timeout"`
	ClampAlive    bool           `yaml:"clamp_alive"`
	Mission       MissionConfig  `yaml:"mission"`
	Logging       LoggingConfig  `yaml:"logging"`
	Metrics       MetricsConfig  `yaml:"metrics"`
	Webhooks      webhook.Config `yaml:"webhooks"`
}

// MissionConfig locates the roster and names the two sides.
type MissionConfig struct {
	Roster  string `yaml:"roster"`
	Catalog string `yaml:"catalog"` // empty: built-in catalog
	Player  string `yaml:"player"`
	Enemy   string `yaml:"enemy"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// MetricsConfig configures the Prometheus endpoint served while watching.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty: disabled
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DebriefingDir: "liberation_debriefings",
		PollInterval:  "3s",
		Extension:     "log",
		Notify:        true,
		DecodeTimeout: "5s",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Webhooks: webhook.DefaultConfig(),
	}
}

// Load loads configuration from path.
// Returns default config if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks durations and enumerations.
func (c *Config) Validate() error {
	if _, err := c.PollIntervalDuration(); err != nil {
		return err
	}
	if _, err := c.DecodeTimeoutDuration(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return errclass.ErrConfigInvalid.WithMessagef("logging.level: %v", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return errclass.ErrConfigInvalid.WithMessagef("logging.format: %v", err)
	}
	if _, err := webhook.NewClient(c.Webhooks, logging.Discard()); err != nil {
		return errclass.ErrConfigInvalid.WithMessage(err.Error())
	}
	if c.Mission.Player != "" && c.Mission.Player == c.Mission.Enemy {
		return errclass.ErrConfigInvalid.WithMessagef("mission.player and mission.enemy are both %q", c.Mission.Player)
	}
	return nil
}

// PollIntervalDuration parses poll_interval; it must be positive.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	return positiveDuration("poll_interval", c.PollInterval)
}

// DecodeTimeoutDuration parses decode_timeout; it must be positive.
func (c *Config) DecodeTimeoutDuration() (time.Duration, error) {
	return positiveDuration("decode_timeout", c.DecodeTimeout)
}

// Logger builds a logger from the logging section.
func (c *Config) Logger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("logging.level: %v", err)
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("logging.format: %v", err)
	}
	l := logging.NewLogger(level)
	l.SetFormat(format)
	return l, nil
}

func positiveDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errclass.ErrConfigInvalid.WithMessagef("%s: %v", key, err)
	}
	if d <= 0 {
		return 0, errclass.ErrConfigInvalid.WithMessagef("%s must be positive, got %s", key, value)
	}
	return d, nil
}
