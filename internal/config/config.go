package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for compacto
type Config struct {
	Output OutputConfig `yaml:"output" toml:"output"`
	Report ReportConfig `yaml:"report" toml:"report"`
	Batch  BatchConfig  `yaml:"batch" toml:"batch"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// OutputConfig controls how results are written
type OutputConfig struct {
	Pretty bool   `yaml:"pretty" toml:"pretty"`
	Indent string `yaml:"indent" toml:"indent"`
	Zstd   bool   `yaml:"zstd" toml:"zstd"`
}

// ReportConfig controls the before/after size report
type ReportConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// BatchConfig controls processing of many files at once
type BatchConfig struct {
	Jobs   int    `yaml:"jobs" toml:"jobs"`
	Suffix string `yaml:"suffix" toml:"suffix"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Pretty: false,
			Indent: "  ",
			Zstd:   false,
		},
		Report: ReportConfig{
			Enabled: true,
		},
		Batch: BatchConfig{
			Jobs:   4,
			Suffix: ".json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, picked by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{
		".compacto.yml", ".compacto.yaml", "compacto.yml", "compacto.yaml",
		".compacto.toml", "compacto.toml",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every setting holds a usable value
func (c *Config) Validate() error {
	level := strings.ToLower(c.Log.Level)
	if !logLevels[level] {
		return fmt.Errorf("invalid log level '%s': want one of debug, info, warn, error", c.Log.Level)
	}
	c.Log.Level = level

	if c.Batch.Jobs < 1 {
		return fmt.Errorf("invalid batch jobs %d: must be at least 1", c.Batch.Jobs)
	}
	if c.Batch.Suffix == "" {
		return fmt.Errorf("batch suffix must not be empty")
	}
	return nil
}

// Flags holds command-line settings that take precedence over the file.
// Zero values leave the loaded setting alone.
type Flags struct {
	Pretty bool
	Indent string
	Zstd   bool
	Quiet  bool
	Debug  bool
	Jobs   int
}

// MergeFlags applies CLI overrides on top of cfg and returns a new Config
func MergeFlags(cfg *Config, flags Flags) *Config {
	merged := *cfg

	if flags.Pretty {
		merged.Output.Pretty = true
	}
	if flags.Indent != "" {
		merged.Output.Indent = flags.Indent
	}
	if flags.Zstd {
		merged.Output.Zstd = true
	}
	if flags.Quiet {
		merged.Report.Enabled = false
	}
	if flags.Debug {
		merged.Log.Level = "debug"
	}
	if flags.Jobs > 0 {
		merged.Batch.Jobs = flags.Jobs
	}

	return &merged
}

// Load returns the config at path, or the first config file found from the
// working directory upward, or the defaults when there is none.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return NewConfig(), "", nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
