// Package config provides CLI configuration management for the kprot command-line tool.
// It supports loading configuration from YAML files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol/header"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultOutputFormat     = OutputFormatText
	DefaultTimezone         = "UTC"
	DefaultExtractorTimeout = 30 * time.Second
	DefaultConfigDir        = ".kprot"
	DefaultConfigFile       = "config.yaml"
)

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is the minimum level written (debug, info, warn, error).
	Level logging.Level `yaml:"level,omitempty"`

	// JSON switches from console lines to one JSON object per entry.
	JSON bool `yaml:"json,omitempty"`
}

// ExtractorConfig controls the external converter for legacy .doc files.
type ExtractorConfig struct {
	// Command is the converter argv; the file path is appended to it.
	// Empty means "antiword -m UTF-8.txt".
	Command []string `yaml:"command,omitempty"`

	// Timeout bounds a single conversion.
	Timeout time.Duration `yaml:"timeout"`
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// Debug forces debug-level logging.
	Debug bool `yaml:"debug,omitempty"`

	Log LogConfig `yaml:"log"`

	Extractor ExtractorConfig `yaml:"extractor"`

	// Timezone is the IANA zone session times are interpreted in.
	Timezone string `yaml:"timezone"`

	// Substitutions overrides the letter spellings used when encoding
	// numbers such as 15 and 16.
	Substitutions numerals.Substitutions `yaml:"gematria_substitutions,omitempty"`

	// Anchors overrides the header label phrases. Unset entries keep the
	// plenum defaults.
	Anchors header.Anchors `yaml:"anchors,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		OutputFormat: DefaultOutputFormat,
		Log:          LogConfig{Level: logging.LevelWarn},
		Extractor:    ExtractorConfig{Timeout: DefaultExtractorTimeout},
		Timezone:     DefaultTimezone,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $KPROT_CONFIG_DIR if set, otherwise ~/.kprot
func ConfigDir() (string, error) {
	if dir := os.Getenv("KPROT_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from the default file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.kprot/config.yaml or $KPROT_CONFIG_DIR/config.yaml), if present
// 3. Environment variables (KPROT_OUTPUT, KPROT_DEBUG, KPROT_ANTIWORD, KPROT_TIMEZONE)
func LoadConfig() (*CLIConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		configPath = ""
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile is like LoadConfig but reads the given file, which must
// exist. An empty path skips the file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// We need a temp struct for unmarshaling duration as string.
	type extractorFile struct {
		Command []string `yaml:"command"`
		Timeout string   `yaml:"timeout"`
	}
	type configFile struct {
		OutputFormat  OutputFormat           `yaml:"output_format"`
		Debug         bool                   `yaml:"debug"`
		Log           LogConfig              `yaml:"log"`
		Extractor     extractorFile          `yaml:"extractor"`
		Timezone      string                 `yaml:"timezone"`
		Substitutions numerals.Substitutions `yaml:"gematria_substitutions"`
		Anchors       header.Anchors         `yaml:"anchors"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.Log.Level != "" {
		cfg.Log.Level = fileCfg.Log.Level
	}
	cfg.Log.JSON = fileCfg.Log.JSON
	cfg.Debug = fileCfg.Debug
	if len(fileCfg.Extractor.Command) > 0 {
		cfg.Extractor.Command = fileCfg.Extractor.Command
	}
	if fileCfg.Extractor.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Extractor.Timeout)
		if err != nil {
			return fmt.Errorf("parsing extractor timeout: %w", err)
		}
		cfg.Extractor.Timeout = timeout
	}
	if fileCfg.Timezone != "" {
		cfg.Timezone = fileCfg.Timezone
	}
	if fileCfg.Substitutions != nil {
		cfg.Substitutions = fileCfg.Substitutions
	}
	cfg.Anchors = fileCfg.Anchors

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("KPROT_OUTPUT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("KPROT_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("KPROT_LOG_JSON"); v == "true" || v == "1" {
		cfg.Log.JSON = true
	}

	if v := os.Getenv("KPROT_ANTIWORD"); v != "" {
		cfg.Extractor.Command = strings.Fields(v)
	}

	if v := os.Getenv("KPROT_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	if !c.Log.Level.IsValid() {
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Log.Level)
	}

	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("extractor timeout must be positive")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if err := c.Substitutions.Validate(); err != nil {
		return fmt.Errorf("invalid gematria_substitutions: %w", err)
	}

	if _, err := header.Compile(c.Anchors); err != nil {
		return fmt.Errorf("invalid anchors: %w", err)
	}

	return nil
}

// Location returns the configured time zone.
func (c *CLIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LogLevel returns the effective log level, honouring Debug.
func (c *CLIConfig) LogLevel() logging.Level {
	if c.Debug {
		return logging.LevelDebug
	}
	return c.Log.Level
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}
