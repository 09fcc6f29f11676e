// Package cmd provides CLI commands for the kprot tool.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/kprot-cli/config"
)

// outputFormat returns the configured format. The root --output flag is
// applied to the configuration before any command runs.
func outputFormat(cfg *config.CLIConfig) (config.OutputFormat, error) {
	if cfg.OutputFormat == "" {
		return config.OutputFormatText, nil
	}
	if !cfg.OutputFormat.IsValid() {
		return "", fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", cfg.OutputFormat)
	}
	return cfg.OutputFormat, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputJSON outputs data as indented JSON.
func outputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// outputYAML outputs data as YAML.
func outputYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(data)
}

// output writes data in a structured format. Text output is handled by the caller.
func output(w io.Writer, format config.OutputFormat, data any) error {
	switch format {
	case config.OutputFormatJSON:
		return outputJSON(w, data)
	case config.OutputFormatYAML:
		return outputYAML(w, data)
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}
