package textextract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand is the converter used for legacy binary .doc files.
var DefaultCommand = []string{"antiword", "-m", "UTF-8.txt"}

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Command converts a file by running an external program that prints its
// text on stdout. The file path is appended as the last argument.
type Command struct {
	Argv   []string
	Runner Runner
}

// NewCommand returns a Command for argv, or DefaultCommand when argv is empty.
func NewCommand(argv []string) *Command {
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	return &Command{Argv: append([]string(nil), argv...), Runner: execRunner{}}
}

// ConvertFile runs the command on path and returns its decoded stdout.
func (c *Command) ConvertFile(ctx context.Context, path string) (string, error) {
	if len(c.Argv) == 0 {
		return "", fmt.Errorf("no converter command configured")
	}
	args := append(append([]string(nil), c.Argv[1:]...), path)
	stdout, stderr, err := c.Runner.Run(ctx, c.Argv[0], args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", c.Argv[0], err, truncate(strings.TrimSpace(string(stderr)), 512))
	}
	return PlainText{}.Convert(ctx, stdout)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
