package sched

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// DefaultStrideConstant is K in stride = K / tickets.
const DefaultStrideConstant int64 = 1000000

// Config mirrors config.yml
type Config struct {
	Policy           string `yaml:"policy"`              // rr (by default)
	SliceTicks       int    `yaml:"slice_ticks"`         // 5 (by default)
	StrideConstant   int64  `yaml:"stride_constant"`     // 1000000 (by default)
	STCFPreemptOnTie bool   `yaml:"stcf_preempt_on_tie"` // true (by default)
	MaxTicks         int64  `yaml:"max_ticks"`           // 1000000 (by default)
	LogLevel         string `yaml:"log_level"`           // info (by default)
}

// DefaultConfig is used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Policy:           PolicyRoundRobin,
		SliceTicks:       5,
		StrideConstant:   DefaultStrideConstant,
		STCFPreemptOnTie: true,
		MaxTicks:         1000000,
		LogLevel:         "info",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and applies sanity clamps.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	cfg.Clamp()
	if !IsValidPolicy(cfg.Policy) {
		return cfg, fmt.Errorf("%w %q", ErrUnknownPolicy, cfg.Policy)
	}
	return cfg, nil
}

// Clamp replaces out-of-range values with their defaults.
func (c *Config) Clamp() {
	def := DefaultConfig()
	if c.Policy == "" {
		c.Policy = def.Policy
	}
	if c.SliceTicks <= 0 {
		c.SliceTicks = def.SliceTicks
	}
	if c.StrideConstant <= 0 {
		c.StrideConstant = def.StrideConstant
	}
	if c.MaxTicks <= 0 {
		c.MaxTicks = def.MaxTicks
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
