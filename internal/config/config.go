package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultInterval = 2 * time.Second

	envInterval = "FDPROG_INTERVAL"
	envVerbose  = "FDPROG_VERBOSE"
)

// Config aggregates the watch loop tunables.
type Config struct {
	Interval time.Duration
	Verbose  bool
	Commands []string
	PIDs     []int
	Ignore   []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{Interval: defaultInterval}
}

// Load builds a Config from defaults, an optional YAML file, and environment
// overrides, applied in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

type fileConfig struct {
	Interval string   `yaml:"interval"`
	Verbose  *bool    `yaml:"verbose"`
	Commands []string `yaml:"commands"`
	PIDs     []int    `yaml:"pids"`
	Ignore   []string `yaml:"ignore"`
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Interval != "" {
		dur, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("parse interval: %w", err)
		}
		if dur <= 0 {
			return errors.New("interval must be > 0")
		}
		cfg.Interval = dur
	}
	if raw.Verbose != nil {
		cfg.Verbose = *raw.Verbose
	}
	for _, pid := range raw.PIDs {
		if pid <= 0 {
			return fmt.Errorf("invalid pid: %d", pid)
		}
	}
	cfg.Commands = append(cfg.Commands, raw.Commands...)
	cfg.PIDs = append(cfg.PIDs, raw.PIDs...)
	cfg.Ignore = append(cfg.Ignore, raw.Ignore...)
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envInterval); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
			cfg.Interval = dur
		} else if err != nil {
			log.Printf("invalid %s value %q: %v", envInterval, v, err)
		}
	}

	if v := os.Getenv(envVerbose); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		} else {
			log.Printf("invalid %s value %q: %v", envVerbose, v, err)
		}
	}
}
