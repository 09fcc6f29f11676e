package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewLogger_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelWarn {
		t.Errorf("expected default level to be warn, got %s", cfg.Level)
	}
	if cfg.Component != "kprot" {
		t.Errorf("expected default component to be 'kprot', got %s", cfg.Component)
	}
	if cfg.JSONFormat {
		t.Error("expected default JSONFormat to be false")
	}
}

func TestNewLogger_NilConfig(t *testing.T) {
	log := NewLogger(nil)
	if log == nil {
		t.Error("expected non-nil logger with nil config")
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "protocol",
		JSONFormat: true,
		Output:     buf,
	})
	log.Info("field resolved", F("field", "knesset_num"))

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	if output["message"] != "field resolved" {
		t.Errorf("expected message 'field resolved', got %v", output["message"])
	}
	if output["component"] != "protocol" {
		t.Errorf("expected component 'protocol', got %v", output["component"])
	}
	if output["field"] != "knesset_num" {
		t.Errorf("expected field 'knesset_num', got %v", output["field"])
	}
	if _, ok := output["time"]; !ok {
		t.Error("expected timestamp field 'time' in output")
	}
	if output["level"] != "info" {
		t.Errorf("expected level 'info', got %v", output["level"])
	}
}

func TestLogger_AllLevels(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger)
		expected string
	}{
		{"debug", func(l Logger) { l.Debug("m") }, "debug"},
		{"info", func(l Logger) { l.Info("m") }, "info"},
		{"warn", func(l Logger) { l.Warn("m") }, "warn"},
		{"error", func(l Logger) { l.Error("m") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: buf})
			tt.logFunc(log)

			var output map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("failed to parse JSON output: %v", err)
			}
			if output["level"] != tt.expected {
				t.Errorf("expected level %s, got %v", tt.expected, output["level"])
			}
		})
	}
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: buf})

	docLog := log.With(F("doc_id", "pf-abc"), F("cached", true))
	docLog.Info("opened")

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["doc_id"] != "pf-abc" {
		t.Errorf("expected doc_id 'pf-abc', got %v", output["doc_id"])
	}
	if output["cached"] != true {
		t.Errorf("expected cached true, got %v", output["cached"])
	}
}

func TestLogger_FieldTypes(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: buf})

	log.Info("types",
		F("str", "s"),
		F("int", 42),
		F("float", 1.5),
		F("bool", true),
		F("dur", 2*time.Second),
		Err(errors.New("boom")),
	)

	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if output["str"] != "s" {
		t.Errorf("expected str 's', got %v", output["str"])
	}
	if output["int"] != float64(42) {
		t.Errorf("expected int 42, got %v", output["int"])
	}
	if output["float"] != 1.5 {
		t.Errorf("expected float 1.5, got %v", output["float"])
	}
	if output["bool"] != true {
		t.Errorf("expected bool true, got %v", output["bool"])
	}
	if output["error"] != "boom" {
		t.Errorf("expected error 'boom', got %v", output["error"])
	}
	if _, ok := output["dur"]; !ok {
		t.Error("expected dur field in output")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelWarn, JSONFormat: true, Output: buf})

	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestLogger_LevelIsPerLogger(t *testing.T) {
	quiet := &bytes.Buffer{}
	loud := &bytes.Buffer{}
	NewLogger(&Config{Level: LevelError, JSONFormat: true, Output: quiet})
	log := NewLogger(&Config{Level: LevelDebug, JSONFormat: true, Output: loud})

	log.Debug("still here")
	if !strings.Contains(loud.String(), "still here") {
		t.Errorf("expected debug output from second logger, got %q", loud.String())
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelInfo, Output: buf})
	log.Info("console message", F("field", "meeting_num"))

	out := buf.String()
	if !strings.Contains(out, "console message") {
		t.Errorf("expected message in console output, got %q", out)
	}
	if !strings.Contains(out, "field=meeting_num") {
		t.Errorf("expected field in console output, got %q", out)
	}
}

func TestLogger_ConsoleColor(t *testing.T) {
	plain := &bytes.Buffer{}
	NewLogger(&Config{Level: LevelInfo, Output: plain}).Info("plain")
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("expected no escape codes without Color, got %q", plain.String())
	}

	colored := &bytes.Buffer{}
	NewLogger(&Config{Level: LevelInfo, Color: true, Output: colored}).Info("colored")
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("expected escape codes with Color, got %q", colored.String())
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored")
	if log.With(F("k", "v")) == nil {
		t.Error("expected With on nop logger to return a logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[Level]string{
		LevelDebug: "debug",
		LevelInfo:  "info",
		LevelWarn:  "warn",
		LevelError: "error",
		"bogus":    "info",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLevel_IsValid(t *testing.T) {
	if !LevelDebug.IsValid() {
		t.Error("expected debug to be valid")
	}
	if Level("trace").IsValid() {
		t.Error("expected trace to be invalid")
	}
}
