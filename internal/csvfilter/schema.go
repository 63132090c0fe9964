package csvfilter

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MagicColumn   = "magic"
	CommentColumn = "comment"
)

var cancelledTokens = map[string]struct{}{
	"cancelled": {},
	"canceled":  {},
}

// MissingColumnError means a required column is absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing %q column in CSV header", e.Column)
}

// Decision is the outcome of Schema.Decide for one row.
type Decision int

const (
	Keep Decision = iota
	DropMagic
	DropCancelled
)

// Schema locates the columns the drop rules read. Comment is -1 when the
// header has no comment column.
type Schema struct {
	Magic   int
	Comment int
	nulls   map[string]struct{}
}

// NewSchema builds a Schema from a header row. Column names are matched
// exactly after stripping a UTF-8 byte order mark; the first match wins.
func NewSchema(header []string, nullValues []string) (Schema, error) {
	s := Schema{Magic: -1, Comment: -1}
	for i, h := range header {
		name := strings.TrimPrefix(h, "\ufeff")
		switch {
		case name == MagicColumn && s.Magic < 0:
			s.Magic = i
		case name == CommentColumn && s.Comment < 0:
			s.Comment = i
		}
	}
	if s.Magic < 0 {
		return Schema{}, &MissingColumnError{Column: MagicColumn}
	}
	if len(nullValues) > 0 {
		s.nulls = make(map[string]struct{}, len(nullValues))
		for _, v := range nullValues {
			s.nulls[v] = struct{}{}
		}
	}
	return s, nil
}

// Decide applies the drop rules to a row.
//
// Rules:
//   - magic that parses as a number equal to zero drops the row.
//   - otherwise a comment equal to "cancelled" or "canceled" after trimming
//     and lower-casing drops it.
//
// Null, missing and unparsable cells never cause a drop. Hex floats and
// digit separators ("0x0p0", "0_0") count as unparsable.
func (s Schema) Decide(row []string) Decision {
	if v, ok := s.cell(row, s.Magic); ok && isZero(strings.TrimSpace(v)) {
		return DropMagic
	}
	if v, ok := s.cell(row, s.Comment); ok {
		if _, hit := cancelledTokens[strings.ToLower(strings.TrimSpace(v))]; hit {
			return DropCancelled
		}
	}
	return Keep
}

func isZero(v string) bool {
	if strings.ContainsAny(v, "xX_") {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}

func (s Schema) cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	v := row[idx]
	if _, null := s.nulls[v]; null {
		return "", false
	}
	return v, true
}
