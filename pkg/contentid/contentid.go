// Package contentid generates short identifiers for opened protocol documents.
// The IDs tag every log line written while a document is open so that field
// resolutions from a batch run can be told apart.
//
// ID Format: <source:2>-<base62_ts:4><base62_rand:4> (11 chars total including dash)
//
// Source prefixes:
//   - pf = protocol opened from a file path
//   - pb = protocol opened from an in-memory buffer
package contentid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

// Source prefixes.
const (
	SourceFile   = "pf"
	SourceBuffer = "pb"
)

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// base62Max is 62^4, the timestamp wraps around it.
const base62Max = 62 * 62 * 62 * 62

var validSources = map[string]bool{
	SourceFile:   true,
	SourceBuffer: true,
}

var (
	ErrInvalidFormat = errors.New("invalid document ID format")
	ErrInvalidSource = errors.New("invalid document source")
)

// ID is a parsed document identifier.
type ID struct {
	Source    string
	Timestamp string
	Random    string
	Raw       string
}

// String returns the raw identifier.
func (id ID) String() string {
	return id.Raw
}

// New generates an identifier for a document from the given source.
// Panics if source is not one of the Source constants.
func New(source string) string {
	if !validSources[source] {
		panic(fmt.Sprintf("contentid: invalid source: %q", source))
	}
	ts := encodeBase62(uint64(time.Now().UnixNano()/1000) % base62Max)
	return source + "-" + ts + randomBase62(4)
}

// Parse validates and parses an identifier string.
func Parse(s string) (ID, error) {
	if len(s) != 11 {
		return ID{}, fmt.Errorf("%w: expected 11 characters, got %d", ErrInvalidFormat, len(s))
	}
	if s[2] != '-' {
		return ID{}, fmt.Errorf("%w: missing dash at position 2", ErrInvalidFormat)
	}
	if !validSources[s[:2]] {
		return ID{}, fmt.Errorf("%w: unknown prefix %q", ErrInvalidSource, s[:2])
	}
	suffix := s[3:]
	if !isValidBase62(suffix) {
		return ID{}, fmt.Errorf("%w: suffix contains invalid characters", ErrInvalidFormat)
	}
	return ID{Source: s[:2], Timestamp: suffix[:4], Random: suffix[4:], Raw: s}, nil
}

// IsValid reports whether s parses as an identifier.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func encodeBase62(n uint64) string {
	result := make([]byte, 4)
	for i := 3; i >= 0; i-- {
		result[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(result)
}

// randomBase62 uses rejection sampling so every symbol is equally likely.
func randomBase62(length int) string {
	result := make([]byte, length)

	// 248 is the largest multiple of 62 that fits in a byte.
	const maxUnbiased = 248

	for i := 0; i < length; {
		var b [1]byte
		if _, err := rand.Read(b[:]); err != nil {
			result[i] = base62Alphabet[0]
			i++
			continue
		}
		if b[0] < maxUnbiased {
			result[i] = base62Alphabet[b[0]%62]
			i++
		}
	}
	return string(result)
}

func isValidBase62(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
