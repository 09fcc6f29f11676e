package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
)

// isolate points the config dir at an empty temp dir and clears KPROT_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KPROT_CONFIG_DIR", dir)
	for _, key := range []string{"KPROT_OUTPUT", "KPROT_DEBUG", "KPROT_LOG_JSON", "KPROT_ANTIWORD", "KPROT_TIMEZONE"} {
		t.Setenv(key, "")
	}
	return dir
}

// TestDefaultConfig verifies default configuration values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.OutputFormat != DefaultOutputFormat {
		t.Errorf("OutputFormat = %v, want %v", cfg.OutputFormat, DefaultOutputFormat)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %v, want UTC", cfg.Timezone)
	}
	if cfg.Extractor.Timeout != DefaultExtractorTimeout {
		t.Errorf("Extractor.Timeout = %v, want %v", cfg.Extractor.Timeout, DefaultExtractorTimeout)
	}
	if cfg.Log.Level != logging.LevelWarn {
		t.Errorf("Log.Level = %v, want warn", cfg.Log.Level)
	}
	if cfg.Debug {
		t.Error("Debug should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// TestOutputFormat_IsValid verifies output format validation.
func TestOutputFormat_IsValid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		valid  bool
	}{
		{OutputFormatText, true},
		{OutputFormatJSON, true},
		{OutputFormatYAML, true},
		{"invalid", false},
		{"", false},
		{"JSON", false}, // Case sensitive
	}

	for _, tc := range tests {
		if got := tc.format.IsValid(); got != tc.valid {
			t.Errorf("OutputFormat(%q).IsValid() = %v, want %v", tc.format, got, tc.valid)
		}
	}
}

// TestCLIConfig_Validate verifies configuration validation.
func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CLIConfig)
		wantErr string
	}{
		{"valid default", func(*CLIConfig) {}, ""},
		{"bad output", func(c *CLIConfig) { c.OutputFormat = "xml" }, "output_format"},
		{"bad level", func(c *CLIConfig) { c.Log.Level = "trace" }, "log level"},
		{"zero timeout", func(c *CLIConfig) { c.Extractor.Timeout = 0 }, "timeout"},
		{"bad timezone", func(c *CLIConfig) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad substitution sum", func(c *CLIConfig) { c.Substitutions = map[int]string{15: "יד"} }, "gematria_substitutions"},
		{"bad substitution letter", func(c *CLIConfig) { c.Substitutions = map[int]string{15: "x"} }, "gematria_substitutions"},
		{"additive substitution", func(c *CLIConfig) { c.Substitutions = map[int]string{15: "יה"} }, ""},
		{"custom substitution", func(c *CLIConfig) { c.Substitutions = map[int]string{15: "טו", 16: "טז"} }, ""},
		{"bad date pattern", func(c *CLIConfig) { c.Anchors.DatePattern = `(\d+)` }, "anchors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestConfigDir verifies config directory resolution.
func TestConfigDir(t *testing.T) {
	t.Run("with env var", func(t *testing.T) {
		t.Setenv("KPROT_CONFIG_DIR", "/tmp/test-kprot-config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		if dir != "/tmp/test-kprot-config" {
			t.Errorf("ConfigDir() = %v, want /tmp/test-kprot-config", dir)
		}
	})

	t.Run("default without env var", func(t *testing.T) {
		t.Setenv("KPROT_CONFIG_DIR", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, DefaultConfigDir); dir != want {
			t.Errorf("ConfigDir() = %v, want %v", dir, want)
		}
	})
}

// TestLoadConfig_Defaults verifies default values when no config exists.
func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.OutputFormat != OutputFormatText {
		t.Errorf("OutputFormat = %v, want text", cfg.OutputFormat)
	}
	if len(cfg.Extractor.Command) != 0 {
		t.Errorf("Extractor.Command = %v, want empty", cfg.Extractor.Command)
	}
}

// TestLoadConfig_FromFile verifies loading from a YAML file.
func TestLoadConfig_FromFile(t *testing.T) {
	dir := isolate(t)

	content := `output_format: yaml
log:
  level: info
  json: true
extractor:
  command: [catdoc, -d, utf-8]
  timeout: 5s
timezone: Asia/Jerusalem
gematria_substitutions:
  15: טו
anchors:
  knesset: "כנסת מספר "
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.OutputFormat != OutputFormatYAML {
		t.Errorf("OutputFormat = %v, want yaml", cfg.OutputFormat)
	}
	if cfg.Log.Level != logging.LevelInfo || !cfg.Log.JSON {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
	if strings.Join(cfg.Extractor.Command, " ") != "catdoc -d utf-8" {
		t.Errorf("Extractor.Command = %v", cfg.Extractor.Command)
	}
	if cfg.Extractor.Timeout != 5*time.Second {
		t.Errorf("Extractor.Timeout = %v, want 5s", cfg.Extractor.Timeout)
	}
	if cfg.Timezone != "Asia/Jerusalem" {
		t.Errorf("Timezone = %v", cfg.Timezone)
	}
	if cfg.Substitutions[15] != "טו" {
		t.Errorf("Substitutions = %v", cfg.Substitutions)
	}
	if cfg.Anchors.Knesset != "כנסת מספר " {
		t.Errorf("Anchors.Knesset = %q", cfg.Anchors.Knesset)
	}
}

// TestLoadConfig_WithEnvOverrides verifies environment variable overrides.
func TestLoadConfig_WithEnvOverrides(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("output_format: yaml\n"), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("KPROT_OUTPUT", "json")
	t.Setenv("KPROT_DEBUG", "1")
	t.Setenv("KPROT_ANTIWORD", "/opt/antiword/bin/antiword -m UTF-8.txt")
	t.Setenv("KPROT_TIMEZONE", "UTC")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.OutputFormat != OutputFormatJSON {
		t.Errorf("OutputFormat = %v, want json", cfg.OutputFormat)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
	if len(cfg.Extractor.Command) != 3 || cfg.Extractor.Command[0] != "/opt/antiword/bin/antiword" {
		t.Errorf("Extractor.Command = %v", cfg.Extractor.Command)
	}
}

// TestLoadConfig_InvalidEnvOutput verifies validation runs after env overlay.
func TestLoadConfig_InvalidEnvOutput(t *testing.T) {
	isolate(t)
	t.Setenv("KPROT_OUTPUT", "xml")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail for an invalid KPROT_OUTPUT")
	}
}

// TestLoadConfigFile verifies explicit config files.
func TestLoadConfigFile(t *testing.T) {
	isolate(t)

	t.Run("missing", func(t *testing.T) {
		if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
			t.Error("LoadConfigFile() should fail for a missing file")
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		if err := os.WriteFile(path, []byte("extractor:\n  timeout: soon\n"), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadConfigFile(path)
		if err == nil || !strings.Contains(err.Error(), "timeout") {
			t.Errorf("LoadConfigFile() error = %v, want timeout error", err)
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		if err := os.WriteFile(path, []byte("output_format: [\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("LoadConfigFile() should fail for malformed YAML")
		}
	})
}

// TestLocation verifies timezone resolution.
func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location() = %v, want UTC", loc)
	}

	cfg.Timezone = ""
	if loc, _ := cfg.Location(); loc != time.UTC {
		t.Errorf("empty timezone should be UTC, got %v", loc)
	}
}
