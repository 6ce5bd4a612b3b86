// Package config provides Viper-based configuration loading for the diceman
// CLI. All settings have working defaults so the tool runs without a config
// file; a file and DICEMAN_* environment variables layer on top.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimConfig holds simulation defaults used when flags are not given.
type SimConfig struct {
	// Trials is the default number of Monte Carlo trials.
	Trials int `mapstructure:"trials"`
	// Workers is the number of goroutines for parallel simulation;
	// 1 keeps runs on a single Source.
	Workers int `mapstructure:"workers"`
	// HistogramWidth is the maximum bar width of the text histogram.
	HistogramWidth int `mapstructure:"histogram_width"`
}

// PresetsConfig holds named-roll preset settings.
type PresetsConfig struct {
	// Dir is the directory scanned for preset YAML files; empty disables
	// preset lookup.
	Dir string `mapstructure:"dir"`
}

// ScriptConfig holds Lua scripting settings.
type ScriptConfig struct {
	// InstructionLimit is the maximum number of Lua opcodes per script run;
	// 0 uses the scripting package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Sim     SimConfig     `mapstructure:"sim"`
	Presets PresetsConfig `mapstructure:"presets"`
	Script  ScriptConfig  `mapstructure:"script"`
}

// Validate checks all configuration invariants.
//
// Postcondition: returns nil if the configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Script.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("script.instruction_limit must be >= 0, got %d", c.Script.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.Trials < 1 {
		errs = append(errs, fmt.Sprintf("sim.trials must be >= 1, got %d", s.Trials))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("sim.workers must be >= 1, got %d", s.Workers))
	}
	if s.HistogramWidth < 1 {
		errs = append(errs, fmt.Sprintf("sim.histogram_width must be >= 1, got %d", s.HistogramWidth))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file, and
// DICEMAN_* environment variable overrides, then validates the result.
//
// Postcondition: returns a valid Config or a non-nil error. A missing file
// is an error only when path is non-empty.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("DICEMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("sim.trials", 10000)
	v.SetDefault("sim.workers", 1)
	v.SetDefault("sim.histogram_width", 40)

	v.SetDefault("presets.dir", "")

	v.SetDefault("script.instruction_limit", 0)
}
