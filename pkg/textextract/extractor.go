// Package textextract turns protocol documents on disk or in memory into
// plain text. Each supported container format has its own converter and a
// Registry picks one by file extension or leading magic bytes.
package textextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otherjamesbrown/kprot-cli/pkg/logging"
)

// Format identifies a document container format.
type Format string

const (
	FormatText Format = "text"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatDOC  Format = "doc"
)

var (
	// ErrEmptyText is returned when a document yields no text at all.
	ErrEmptyText = errors.New("document contains no text")

	// ErrUnsupportedFormat is returned when no converter is registered for a format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

var (
	magicPDF  = []byte("%PDF")
	magicZIP  = []byte("PK\x03\x04")
	magicOLE2 = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Extractor produces text from a document.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (*Handle, error)
	ExtractBytes(ctx context.Context, data []byte) (*Handle, error)
}

// Converter turns raw document bytes into text.
type Converter interface {
	Convert(ctx context.Context, data []byte) (string, error)
}

// Handle holds extracted text and any resources created to produce it.
type Handle struct {
	Text   string
	Format Format

	tempFiles []string
}

// Close removes temporary files owned by the handle. It is safe to call more than once.
func (h *Handle) Close() error {
	var errs []error
	for _, p := range h.tempFiles {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	h.tempFiles = nil
	return errors.Join(errs...)
}

// DetectBytes identifies the format of data from its leading bytes.
// Anything that is not a known binary container is treated as text.
func DetectBytes(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return FormatPDF
	case bytes.HasPrefix(data, magicZIP):
		return FormatDOCX
	case bytes.HasPrefix(data, magicOLE2):
		return FormatDOC
	default:
		return FormatText
	}
}

// DetectPath identifies the format of a file from its extension.
// ok is false when the extension is not recognised.
func DetectPath(path string) (f Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return FormatText, true
	case ".docx":
		return FormatDOCX, true
	case ".pdf":
		return FormatPDF, true
	case ".doc":
		return FormatDOC, true
	}
	return "", false
}

// Registry dispatches extraction to the converter for a document's format.
type Registry struct {
	converters map[Format]Converter
	command    *Command
	logger     logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithCommand replaces the external converter used for legacy .doc files.
func WithCommand(cmd *Command) Option {
	return func(r *Registry) {
		r.command = cmd
	}
}

// WithConverter registers c for format f, replacing any built-in converter.
func WithConverter(f Format, c Converter) Option {
	return func(r *Registry) {
		r.converters[f] = c
	}
}

// NewRegistry creates a registry with the built-in converters.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		converters: map[Format]Converter{
			FormatText: PlainText{},
			FormatDOCX: DOCX{},
			FormatPDF:  PDF{},
		},
		command: NewCommand(nil),
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.F("component", "textextract"))
	return r
}

// ExtractFile reads the file at path and converts it to text.
func (r *Registry) ExtractFile(ctx context.Context, path string) (*Handle, error) {
	format, ok := DetectPath(path)
	if format == FormatDOC {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		return r.runCommand(ctx, path, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !ok {
		format = DetectBytes(data)
		if format == FormatDOC {
			return r.runCommand(ctx, path, nil)
		}
	}

	r.logger.Debug("Extracting file", logging.F("path", path), logging.F("format", string(format)))
	return r.convert(ctx, format, data)
}

// ExtractBytes converts an in-memory document to text. Legacy .doc buffers
// are spooled to a temporary file that the returned Handle owns.
func (r *Registry) ExtractBytes(ctx context.Context, data []byte) (*Handle, error) {
	format := DetectBytes(data)
	r.logger.Debug("Extracting buffer", logging.F("bytes", len(data)), logging.F("format", string(format)))

	if format != FormatDOC {
		return r.convert(ctx, format, data)
	}

	tmp, err := os.CreateTemp("", "kprot-*.doc")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	return r.runCommand(ctx, name, []string{name})
}

func (r *Registry) convert(ctx context.Context, format Format, data []byte) (*Handle, error) {
	c, ok := r.converters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	text, err := c.Convert(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", format, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return &Handle{Text: text, Format: format}, nil
}

func (r *Registry) runCommand(ctx context.Context, path string, owned []string) (*Handle, error) {
	h := &Handle{Format: FormatDOC, tempFiles: owned}
	text, err := r.command.ConvertFile(ctx, path)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyText
	}
	if err != nil {
		if cerr := h.Close(); cerr != nil {
			r.logger.Warn("Failed to remove temp file", logging.Err(cerr))
		}
		return nil, err
	}
	h.Text = text
	return h, nil
}
