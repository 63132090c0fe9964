package query

import (
	"sort"
	"strings"
)

// StripLeadingComments removes block (/* */) and line (--) comments, and the
// whitespace around them, from the start of s. Comments after the first
// token are left alone. An unterminated block comment stops stripping and
// the text is returned from that point.
func StripLeadingComments(s string) string {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	for {
		switch {
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s[2:], "*/")
			if end < 0 {
				return s
			}
			s = strings.TrimLeft(s[2+end+2:], " \t\r\n\f\v")
		case strings.HasPrefix(s, "--"):
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				return ""
			}
			s = strings.TrimLeft(s[nl+1:], " \t\r\n\f\v")
		default:
			return s
		}
	}
}

// IsSelectOnly reports whether s, after leading comments, begins with
// SELECT (any case).
//
// This is a prefix check, not a parser: it does not look past the first
// keyword and does not stop a second statement from being batched after it
// when the driver allows multi-statements.
func IsSelectOnly(s string) bool {
	s = StripLeadingComments(s)
	return len(s) >= 6 && strings.EqualFold(s[:6], "select")
}

// CheckStatement returns a *ForbiddenStatementError unless IsSelectOnly(s).
func CheckStatement(s string) error {
	if !IsSelectOnly(s) {
		return &ForbiddenStatementError{Statement: StripLeadingComments(s)}
	}
	return nil
}

// CheckColumns verifies that got contains every canonical column. Extra
// columns are fine. Names are compared exactly.
func CheckColumns(got []string) error {
	present := make(map[string]struct{}, len(got))
	for _, c := range got {
		present[c] = struct{}{}
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &SchemaMismatchError{Missing: missing}
}
