// Package config provides Viper-based configuration loading for the
// probability table generator.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ModeMonteCarlo estimates each cell by random sampling.
	ModeMonteCarlo = "montecarlo"
	// ModeExact computes each cell by enumerating every pool.
	ModeExact = "exact"
)

// SimulationConfig holds the sampling grid and estimator settings.
type SimulationConfig struct {
	// Mode selects the estimator: "montecarlo" or "exact".
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Attempts is the number of sampled pools per table cell.
	Attempts int `mapstructure:"attempts" yaml:"attempts"`
	// Seed seeds the pseudo-random source; 0 draws a fresh seed per run.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
	// SkillMin and SkillMax bound the table columns, inclusive.
	SkillMin int `mapstructure:"skill_min" yaml:"skill_min"`
	SkillMax int `mapstructure:"skill_max" yaml:"skill_max"`
	// DifficultyMin and DifficultyMax bound the table rows, inclusive, in half points.
	DifficultyMin float64 `mapstructure:"difficulty_min" yaml:"difficulty_min"`
	DifficultyMax float64 `mapstructure:"difficulty_max" yaml:"difficulty_max"`
}

// OutputConfig holds table file settings.
type OutputConfig struct {
	// Dir is the directory the table file is written into.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// Delimiter is the single-character field separator.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Comma returns the delimiter as a rune.
//
// Precondition: Delimiter is a single character (see Validate).
func (o OutputConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(o.Delimiter)
	return r
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format" yaml:"format"`
	// OutputPaths lists zap sinks, e.g. "stderr" or a file path.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// YAML renders the configuration as a YAML document.
//
// Postcondition: Returns a document that Load accepts, or a non-nil error.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return out, nil
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateOutput(c.Output); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	validModes := map[string]bool{ModeMonteCarlo: true, ModeExact: true}
	if !validModes[s.Mode] {
		errs = append(errs, fmt.Sprintf("simulation.mode must be one of [montecarlo, exact], got %q", s.Mode))
	}
	if s.Attempts < 1 {
		errs = append(errs, fmt.Sprintf("simulation.attempts must be >= 1, got %d", s.Attempts))
	}
	if s.SkillMin < 1 {
		errs = append(errs, fmt.Sprintf("simulation.skill_min must be >= 1, got %d", s.SkillMin))
	}
	if s.SkillMax < s.SkillMin {
		errs = append(errs, "simulation.skill_max must not be below simulation.skill_min")
	}
	if !isHalfStep(s.DifficultyMin) {
		errs = append(errs, fmt.Sprintf("simulation.difficulty_min must be a multiple of 0.5, got %v", s.DifficultyMin))
	}
	if !isHalfStep(s.DifficultyMax) {
		errs = append(errs, fmt.Sprintf("simulation.difficulty_max must be a multiple of 0.5, got %v", s.DifficultyMax))
	}
	if s.DifficultyMax < s.DifficultyMin {
		errs = append(errs, "simulation.difficulty_max must not be below simulation.difficulty_min")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func isHalfStep(v float64) bool {
	doubled := v * 2
	return !math.IsInf(v, 0) && !math.IsNaN(v) && doubled == math.Trunc(doubled)
}

func validateOutput(o OutputConfig) error {
	var errs []string
	if o.Dir == "" {
		errs = append(errs, "output.dir must not be empty")
	}
	if utf8.RuneCountInString(o.Delimiter) != 1 {
		errs = append(errs, fmt.Sprintf("output.delimiter must be a single character, got %q", o.Delimiter))
	} else if r := o.Comma(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		errs = append(errs, fmt.Sprintf("output.delimiter %q is not a valid field separator", o.Delimiter))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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
	if len(l.OutputPaths) == 0 {
		return errors.New("logging.output_paths must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Precondition: path is empty or names a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with POOLPROB_ prefix
	v.SetEnvPrefix("POOLPROB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
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
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
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
	v.SetDefault("simulation.mode", ModeMonteCarlo)
	v.SetDefault("simulation.attempts", 100_000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.skill_min", 11)
	v.SetDefault("simulation.skill_max", 69)
	v.SetDefault("simulation.difficulty_min", 5.0)
	v.SetDefault("simulation.difficulty_max", 15.0)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.delimiter", ",")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_paths", []string{"stderr"})
}
