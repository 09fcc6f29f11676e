package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/kprot-cli/config"
	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
	"github.com/otherjamesbrown/kprot-cli/pkg/textextract"
)

const plenumHeader = `הכנסת העשרים
חוברת כ"א
ישיבה רי"ט
הישיבה המאתיים-ותשע-עשרה של הכנסת העשרים
יום שלישי (21 במרס 2017), שעה 16:00
`

const noBookletHeader = `הכנסת העשרים
ישיבה רי"ט
הישיבה המאתיים-ותשע-עשרה של הכנסת העשרים
יום שלישי (21 במרס 2017), שעה 16:00
`

func writeProtocol(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func testInspectDeps(cfg *config.CLIConfig) *InspectCommandDeps {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InspectCommandDeps{
		LoadConfig: func() (*config.CLIConfig, error) { return cfg, nil },
		Logger:     logging.NewNopLogger(),
	}
}

func configWithOutput(f config.OutputFormat) *config.CLIConfig {
	cfg := config.DefaultConfig()
	cfg.OutputFormat = f
	return cfg
}

func executeInspect(t *testing.T, deps *InspectCommandDeps, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewInspectCommand(deps)
	var out, errb bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errb)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err = cmd.Execute()
	return out.String(), errb.String(), err
}

func TestInspect_Text(t *testing.T) {
	path := writeProtocol(t, "20_ptm_381742.txt", plenumHeader)

	out, _, err := executeInspect(t, testInspectDeps(nil), path)
	require.NoError(t, err)

	assert.Contains(t, out, path)
	assert.Contains(t, out, "knesset_num_heb          עשרים")
	assert.Contains(t, out, "knesset_num              20")
	assert.Contains(t, out, "meeting_num              219")
	assert.Contains(t, out, "booklet_num              21")
	assert.Contains(t, out, "booklet_meeting_num      219")
	assert.Contains(t, out, "date_string_heb          21 מרס 2017")
	assert.Contains(t, out, "time_string              16:00")
	assert.Contains(t, out, "datetime                 2017-03-21 16:00 UTC")
}

func TestInspect_PartialFailureIsNotFatal(t *testing.T) {
	path := writeProtocol(t, "partial.txt", noBookletHeader)

	out, _, err := executeInspect(t, testInspectDeps(nil), path)
	require.NoError(t, err)

	assert.Contains(t, out, "booklet_num_heb          (absent)")
	assert.Contains(t, out, "booklet_num              error: numeral_parse_error")
	assert.Contains(t, out, "knesset_num              20")
}

func TestInspect_JSON(t *testing.T) {
	path := writeProtocol(t, "partial.txt", noBookletHeader)

	out, _, err := executeInspect(t, testInspectDeps(configWithOutput(config.OutputFormatJSON)), path)
	require.NoError(t, err)

	var result struct {
		Documents []map[string]any `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Documents, 1)

	doc := result.Documents[0]
	assert.Equal(t, float64(20), doc["knesset_num"])
	assert.Equal(t, "מאתיים-ותשע-עשרה", doc["meeting_num_heb"])
	assert.Nil(t, doc["booklet_num"])
	assert.Equal(t, "2017-03-21T16:00:00Z", doc["datetime"])

	errs, ok := doc["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "booklet_num", errs[0].(map[string]any)["field"])
}

func TestInspect_SingleFieldYAML(t *testing.T) {
	a := writeProtocol(t, "a.txt", plenumHeader)
	b := writeProtocol(t, "b.txt", noBookletHeader)

	out, _, err := executeInspect(t, testInspectDeps(configWithOutput(config.OutputFormatYAML)), "--field", "booklet_num", a, b)
	require.NoError(t, err)

	var result InspectOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	require.Len(t, result.Fields, 2)

	assert.Equal(t, a, result.Fields[0].Source)
	assert.Equal(t, 21, result.Fields[0].Value)
	assert.Empty(t, result.Fields[0].Error)

	assert.Nil(t, result.Fields[1].Value)
	assert.Equal(t, "numeral_parse_error", string(result.Fields[1].Code))
}

func TestInspect_UnknownField(t *testing.T) {
	path := writeProtocol(t, "a.txt", plenumHeader)

	_, _, err := executeInspect(t, testInspectDeps(nil), "--field", "speaker", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestInspect_LoadFailureSetsError(t *testing.T) {
	good := writeProtocol(t, "good.txt", plenumHeader)
	missing := filepath.Join(t.TempDir(), "missing.txt")

	out, stderr, err := executeInspect(t, testInspectDeps(nil), good, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents")

	assert.Contains(t, out, "knesset_num              20")
	assert.Contains(t, stderr, "missing.txt")
	assert.Contains(t, stderr, "load_error")
	assert.Contains(t, stderr, "hint:")
}

func TestInspect_ShowTextAndStats(t *testing.T) {
	path := writeProtocol(t, "a.txt", plenumHeader)

	out, stderr, err := executeInspect(t, testInspectDeps(nil), "--show-text", "--stats", path)
	require.NoError(t, err)

	assert.Contains(t, out, "| הכנסת העשרים")
	assert.Contains(t, stderr, "kprot_documents_opened_total{format=text,outcome=ok} 1")
	assert.Contains(t, stderr, "kprot_field_resolutions_total{field=knesset_num,outcome=ok} 1")
}

func TestInspect_CustomAnchorsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Anchors.Knesset = "כנסת מספר "
	path := writeProtocol(t, "a.txt", "כנסת מספר עשרים\nישיבה רי\"ט\n")

	out, _, err := executeInspect(t, testInspectDeps(cfg), "--field", "knesset_num", path)
	require.NoError(t, err)
	assert.Contains(t, out, "knesset_num              20")
}

type stubExtractor struct{ text string }

func (s stubExtractor) ExtractFile(context.Context, string) (*textextract.Handle, error) {
	return &textextract.Handle{Text: s.text, Format: textextract.FormatDOC}, nil
}

func (s stubExtractor) ExtractBytes(context.Context, []byte) (*textextract.Handle, error) {
	return &textextract.Handle{Text: s.text, Format: textextract.FormatDOC}, nil
}

func TestInspect_InjectedExtractor(t *testing.T) {
	deps := testInspectDeps(nil)
	deps.Extractor = stubExtractor{text: plenumHeader}

	out, _, err := executeInspect(t, deps, "--field", "meeting_num", "protocol.doc")
	require.NoError(t, err)
	assert.Contains(t, out, "protocol.doc (doc, ")
	assert.Contains(t, out, "meeting_num              219")
}

func TestInspect_InvalidOutput(t *testing.T) {
	path := writeProtocol(t, "a.txt", plenumHeader)

	_, _, err := executeInspect(t, testInspectDeps(configWithOutput("xml")), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	// output is a root flag, not a local one
	_, _, err = executeInspect(t, testInspectDeps(nil), "--output", "json", path)
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}
