package textextract

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainText converts text files. UTF-8 input is used as is; anything else
// is decoded as Windows-1255, the legacy Hebrew code page.
type PlainText struct{}

// Convert implements Converter.
func (PlainText) Convert(_ context.Context, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1255.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1255: %w", err)
	}
	return string(out), nil
}
