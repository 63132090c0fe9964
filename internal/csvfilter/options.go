package csvfilter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	DefaultChunkSize = 100000
	DefaultEncoding  = "utf-8"
	DefaultSeparator = ','
)

// Options tunes how a CSV file is read and written.
//
// Fields:
//   - ChunkSize: rows buffered before being filtered and written.
//   - Encoding: WHATWG encoding label (utf-8, latin1, windows-1252, ...).
//     The output is written in the same encoding.
//   - Separator: field delimiter for both input and output.
//   - NullValues: literal cell values treated as null by the drop rules.
type Options struct {
	ChunkSize  int
	Encoding   string
	Separator  rune
	NullValues []string
}

// DefaultOptions returns 100000-row chunks, UTF-8, comma separated.
func DefaultOptions() Options {
	return Options{
		ChunkSize: DefaultChunkSize,
		Encoding:  DefaultEncoding,
		Separator: DefaultSeparator,
	}
}

// ParseSeparator reads a separator given on the command line. It must be a
// single character; the escapes "\t" and the word "tab" mean a tab.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case `\t`, "tab", "TAB":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid separator %q", s)
	}
	return r, nil
}

// ParseNullValues splits a "|"-separated list of null markers. Empty tokens
// are kept, so "NA||" marks "NA" and "" as null. An empty list returns nil.
func ParseNullValues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// lookupEncoding resolves a label. UTF-8 returns nil: the bytes are passed
// through untouched rather than re-encoded.
func lookupEncoding(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Separator == 0 {
		o.Separator = DefaultSeparator
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	return o
}
