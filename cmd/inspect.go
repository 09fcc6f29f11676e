package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/kprot-cli/config"
	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol"
	"github.com/otherjamesbrown/kprot-cli/pkg/protocol/header"
	"github.com/otherjamesbrown/kprot-cli/pkg/textextract"
)

// InspectCommandDeps holds the dependencies for the inspect command.
type InspectCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	// Extractor overrides the extractor built from configuration.
	Extractor textextract.Extractor

	// Logger overrides the logger built from configuration.
	Logger logging.Logger
}

// DefaultInspectDeps returns the default dependencies for production use.
func DefaultInspectDeps() *InspectCommandDeps {
	return &InspectCommandDeps{
		LoadConfig: config.LoadConfig,
	}
}

type inspectFlags struct {
	field    string
	showText bool
	stats    bool
}

// FieldOutput is one field of one document in structured output.
type FieldOutput struct {
	Source string             `json:"source" yaml:"source"`
	Field  protocol.Field     `json:"field" yaml:"field"`
	Value  any                `json:"value" yaml:"value"`
	Code   kperrors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Error  string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// LoadFailure is a document that could not be opened.
type LoadFailure struct {
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error" yaml:"error"`
}

// InspectOutput is the structured result of the inspect command.
type InspectOutput struct {
	Documents []*protocol.Record `json:"documents,omitempty" yaml:"documents,omitempty"`
	Fields    []FieldOutput      `json:"fields,omitempty" yaml:"fields,omitempty"`
	Failures  []LoadFailure      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(deps *InspectCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultInspectDeps()
	}
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Extract header fields from plenum protocols",
		Long: `Read one or more Knesset plenum protocol files and print their header fields:
the Knesset number, meeting number, booklet and booklet-meeting numbers
(each as written and decoded), the session date and time, and the combined
datetime.

Supported inputs are plain text (UTF-8 or Windows-1255), .docx, .pdf and
legacy .doc files. Legacy .doc files are converted with antiword, or with the
command set in extractor.command / KPROT_ANTIWORD.

A field that cannot be resolved is reported next to the others and does not
stop the command. The exit status is non-zero only when a file cannot be loaded.

Examples:
  # All fields of one protocol
  kprot inspect 20_ptm_381742.doc

  # One field across many protocols, as JSON
  kprot inspect --field datetime --output json protocols/*.doc

  # Show the extracted text to debug a missing anchor
  kprot inspect --show-text 20_ptm_381742.doc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, deps, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.field, "field", "f", "", "Print only this field (e.g. knesset_num, datetime)")
	cmd.Flags().BoolVar(&flags.showText, "show-text", false, "Print the normalised document text (text output only)")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Print resolution counters to stderr when done")

	return cmd
}

// runInspect executes the inspect command.
func runInspect(cmd *cobra.Command, deps *InspectCommandDeps, flags *inspectFlags, paths []string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	format, err := outputFormat(cfg)
	if err != nil {
		return err
	}

	fields := protocol.Fields
	if flags.field != "" {
		f, err := protocol.ParseField(flags.field)
		if err != nil {
			return err
		}
		fields = []protocol.Field{f}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewLogger(&logging.Config{
			Level:      cfg.LogLevel(),
			Component:  "kprot",
			JSONFormat: cfg.Log.JSON,
			Color:      isTerminal(cmd.ErrOrStderr()),
			Output:     cmd.ErrOrStderr(),
		})
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	extractor := deps.Extractor
	if extractor == nil {
		extractor = textextract.NewRegistry(
			textextract.WithLogger(logger),
			textextract.WithCommand(textextract.NewCommand(cfg.Extractor.Command)),
		)
	}

	reg := prometheus.NewRegistry()
	opts := protocol.Options{
		Extractor: extractor,
		Decoder:   numerals.NewDecoder(numerals.NewGematria(cfg.Substitutions)),
		Anchors:   cfg.Anchors,
		Location:  loc,
		Logger:    logger,
		Metrics:   protocol.NewMetrics(reg),
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	out := cmd.OutOrStdout()
	result := &InspectOutput{}

	for i, path := range paths {
		ctx, cancel := context.WithTimeout(parent, cfg.Extractor.Timeout)
		err := protocol.With(ctx, protocol.FromPath(path), opts, func(doc *protocol.Document) error {
			if format != config.OutputFormatText {
				return collectStructured(doc, path, fields, flags.field != "", result)
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			return printDocumentText(out, doc, path, fields, flags.showText)
		})
		cancel()

		if err != nil {
			if !kperrors.IsLoad(err) {
				return err
			}
			result.Failures = append(result.Failures, LoadFailure{Source: path, Error: err.Error()})
			if format == config.OutputFormatText {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				fmt.Fprintf(cmd.ErrOrStderr(), "  hint: %s\n", kperrors.GetSuggestedAction(kperrors.CodeLoadError))
			}
		}
	}

	if format != config.OutputFormatText {
		if err := output(out, format, result); err != nil {
			return err
		}
	}

	if flags.stats {
		if err := printStats(cmd.ErrOrStderr(), reg); err != nil {
			return err
		}
	}

	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d of %d documents could not be loaded", n, len(paths))
	}
	return nil
}

func collectStructured(doc *protocol.Document, path string, fields []protocol.Field, single bool, result *InspectOutput) error {
	if !single {
		rec, err := doc.Record()
		if err != nil {
			return err
		}
		result.Documents = append(result.Documents, rec)
		return nil
	}

	f := fields[0]
	v, err := doc.Value(f)
	fo := FieldOutput{Source: path, Field: f, Value: v}
	if err != nil {
		if errors.Is(err, kperrors.ErrClosed) {
			return err
		}
		fo.Value = nil
		fo.Code = kperrors.CodeOf(err)
		fo.Error = err.Error()
	}
	result.Fields = append(result.Fields, fo)
	return nil
}

func printDocumentText(w io.Writer, doc *protocol.Document, path string, fields []protocol.Field, showText bool) error {
	fmt.Fprintf(w, "%s (%s, %s)\n", path, doc.Format(), doc.ID())
	for _, f := range fields {
		v, err := doc.Value(f)
		if err != nil {
			if errors.Is(err, kperrors.ErrClosed) {
				return err
			}
			fmt.Fprintf(w, "  %-24s error: %v\n", f, err)
			continue
		}
		fmt.Fprintf(w, "  %-24s %s\n", f, formatValue(v))
	}
	if showText {
		fmt.Fprintln(w, "  --- text ---")
		for _, line := range strings.Split(strings.TrimRight(doc.Text(), "\n"), "\n") {
			fmt.Fprintf(w, "  | %s\n", line)
		}
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "(absent)"
	case header.DateParts:
		return val.Day + " " + val.Month + " " + val.Year
	case header.TimeParts:
		return val.Hour + ":" + val.Minute
	case time.Time:
		return val.Format("2006-01-02 15:04 MST")
	default:
		return fmt.Sprint(val)
	}
}

// printStats writes every counter gathered from reg as "name{labels} value".
func printStats(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering stats: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}
