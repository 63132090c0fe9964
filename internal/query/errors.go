package query

import (
	"fmt"
	"strings"
)

// ValidationError reports a Criteria field outside its allowed range or set.
// Field is the JSON name of the offending field (e.g. "order_by").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ForbiddenStatementError is returned when a raw query does not start with
// SELECT once leading comments are removed.
type ForbiddenStatementError struct {
	Statement string
}

func (e *ForbiddenStatementError) Error() string {
	return fmt.Sprintf("only SELECT statements are allowed, got %q", preview(e.Statement))
}

// SchemaMismatchError lists the canonical columns a raw query result lacks.
// Missing is sorted.
type SchemaMismatchError struct {
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return "query result is missing required columns: " + strings.Join(e.Missing, ", ")
}

func preview(s string) string {
	const max = 40
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
