package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/kprot-cli/config"
	kperrors "github.com/otherjamesbrown/kprot-cli/pkg/errors"
	"github.com/otherjamesbrown/kprot-cli/pkg/numerals"
)

// NumeralCommandDeps holds the dependencies for the numeral command.
type NumeralCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
}

// DefaultNumeralDeps returns the default dependencies for production use.
func DefaultNumeralDeps() *NumeralCommandDeps {
	return &NumeralCommandDeps{
		LoadConfig: config.LoadConfig,
	}
}

type numeralFlags struct {
	letters bool
	words   bool
	encode  int
}

// NumeralOutput is the structured result of the numeral command.
type NumeralOutput struct {
	Token string `json:"token" yaml:"token"`
	Kind  string `json:"kind" yaml:"kind"`
	Value int    `json:"value" yaml:"value"`
}

// NewNumeralCommand creates the numeral command.
func NewNumeralCommand(deps *NumeralCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultNumeralDeps()
	}
	flags := &numeralFlags{}

	cmd := &cobra.Command{
		Use:   "numeral [token]",
		Short: "Decode or encode a Hebrew numeral",
		Long: `Decode a single Hebrew numeral token the way protocol headers are decoded.

Two notations are understood:
  words    spelled-out numbers joined by hyphens: "מאתיים-ותשע-עשרה" = 219
  letters  letter numerals with geresh or gershayim: רי"ט = 219, פ' = 80

The notation is detected from the geresh/gershayim marks unless --letters or
--words is given. With --encode, the number is written as a letter numeral
using the configured gematria_substitutions (15 = ט"ו by default).

Examples:
  kprot numeral 'מאתיים-ותשע-עשרה'
  kprot numeral --letters 'כ"א'
  kprot numeral --encode 15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNumeral(cmd, deps, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.letters, "letters", false, "Treat the token as a letter numeral")
	cmd.Flags().BoolVar(&flags.words, "words", false, "Treat the token as number words")
	cmd.Flags().IntVar(&flags.encode, "encode", 0, "Encode this number (1-999) as a letter numeral")
	cmd.MarkFlagsMutuallyExclusive("letters", "words")

	return cmd
}

// runNumeral executes the numeral command.
func runNumeral(cmd *cobra.Command, deps *NumeralCommandDeps, flags *numeralFlags, args []string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	format, err := outputFormat(cfg)
	if err != nil {
		return err
	}

	g := numerals.NewGematria(cfg.Substitutions)
	var result NumeralOutput

	switch {
	case flags.encode != 0:
		if len(args) > 0 {
			return fmt.Errorf("--encode takes no token argument")
		}
		letters, err := g.Encode(flags.encode)
		if err != nil {
			return err
		}
		result = NumeralOutput{Token: letters, Kind: numerals.KindLetter.String(), Value: flags.encode}
	case len(args) == 1:
		n := detectNumeral(args[0], flags)
		v, err := numerals.NewDecoder(g).Decode(n)
		if err != nil {
			if code := kperrors.CodeOf(err); code != "" {
				return fmt.Errorf("%w\nhint: %s", err, kperrors.GetSuggestedAction(code))
			}
			return err
		}
		result = NumeralOutput{Token: n.Text, Kind: n.Kind.String(), Value: v}
	default:
		return fmt.Errorf("a token or --encode is required")
	}

	out := cmd.OutOrStdout()
	if format == config.OutputFormatText {
		if flags.encode != 0 {
			fmt.Fprintln(out, result.Token)
		} else {
			fmt.Fprintln(out, result.Value)
		}
		return nil
	}
	return output(out, format, result)
}

// detectNumeral builds a Numeral from token, honouring explicit flags and
// otherwise guessing the notation from geresh/gershayim marks.
func detectNumeral(token string, flags *numeralFlags) numerals.Numeral {
	token = strings.TrimSpace(token)
	switch {
	case flags.letters:
		return numerals.Letters(token)
	case flags.words:
		return numerals.Word(token)
	}
	if strings.ContainsAny(numerals.NormalizeMarks(token), string([]rune{numerals.Geresh, numerals.Gershayim})) {
		return numerals.Letters(token)
	}
	return numerals.Word(token)
}
