package tradetime

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the output form for instants: UTC, millisecond precision, Z suffix.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// isoInputLayouts are tried in order by ParseISO. Layouts without a zone are
// read as UTC.
var isoInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatISO renders t in ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatISOOptional is FormatISO for nullable instants.
func FormatISOOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatISO(*t)
	return &s
}

// ParseISO reads an ISO-8601 datetime as given on the command line or in a
// query string. A trailing "Z", a numeric offset or no zone at all (UTC) are
// accepted, as is a bare date. The result is always in UTC.
func ParseISO(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	for _, layout := range isoInputLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q: expected ISO-8601 (e.g. 2023-02-09T00:00:00Z)", s)
}
