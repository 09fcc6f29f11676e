// Package main provides the kprot CLI entry point.
// kprot reads the header of Knesset plenum protocols: Knesset and meeting
// numbers, booklet numbers and the session date and time.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/kprot-cli/cmd"
	"github.com/otherjamesbrown/kprot-cli/config"
	"github.com/otherjamesbrown/kprot-cli/pkg/buildinfo"
)

// Global flags and state.
var (
	cfgFile      string
	outputFormat string
	debug        bool

	// cfg holds the loaded configuration.
	cfg *config.CLIConfig
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kprot",
	Short: "Read Knesset plenum protocol headers",
	Long: `kprot extracts the header fields of Knesset plenum protocols.

A protocol header names the Knesset and meeting numbers in Hebrew words
("הכנסת העשרים", "הישיבה המאתיים-ותשע-עשרה"), the booklet numbers in
letter numerals ("חוברת כ\"א", "ישיבה רי\"ט") and the session date and time.
kprot finds each of these, decodes the numerals and reports them as values.

COMMANDS:
  kprot inspect <file>...    All header fields of one or more protocols
  kprot numeral <token>      Decode a single numeral token
  kprot version              Build information

Configuration is read from ~/.kprot/config.yaml (or --config) and KPROT_*
environment variables. Use --output json or yaml for machine-readable output.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadConfigFile(cfgFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Override with command-line flags.
		if outputFormat != "" {
			cfg.OutputFormat = config.OutputFormat(outputFormat)
			if !cfg.OutputFormat.IsValid() {
				return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", outputFormat)
			}
		}
		if debug {
			cfg.Debug = true
		}
		return nil
	},
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the kprot CLI.

Examples:
  kprot version
  kprot version --output json`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get("kprot")
		out := c.OutOrStdout()

		switch config.OutputFormat(outputFormat) {
		case config.OutputFormatJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case config.OutputFormatYAML:
			return yaml.NewEncoder(out).Encode(info)
		case "", config.OutputFormatText:
			fmt.Fprintf(out, "kprot version %s\n", info.Version)
			fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
			fmt.Fprintf(out, "  go:         %s %s\n", info.GoVersion, info.Platform)
			return nil
		default:
			return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", outputFormat)
		}
	},
}

// loadedConfig hands the configuration resolved by PersistentPreRunE to subcommands.
func loadedConfig() (*config.CLIConfig, error) {
	if cfg == nil {
		return config.LoadConfig()
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.kprot/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd.NewInspectCommand(&cmd.InspectCommandDeps{LoadConfig: loadedConfig}))
	rootCmd.AddCommand(cmd.NewNumeralCommand(&cmd.NumeralCommandDeps{LoadConfig: loadedConfig}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
