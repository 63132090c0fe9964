// Package tradetime converts between the store's "big-int human readable"
// timestamps (YYYYMMDDhhmmss or YYYYMMDDhhmmssSSS) and UTC instants.
package tradetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	secondsLayout = "20060102150405"
	secondsLen    = 14
	millisLen     = 17

	// EpochSentinel is the 17-digit "not set" marker. It decodes to nil,
	// never to the Unix epoch.
	EpochSentinel = "19700101000000000"
)

// FormatError reports a value that is not a valid encoded timestamp.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid big-int timestamp %q: %s", e.Value, e.Reason)
}

// Decode parses an encoded timestamp.
//
// Behavior:
//   - Empty or whitespace-only input, "0" and EpochSentinel return (nil, nil).
//   - 14 digits decode to a UTC instant with zero sub-second part.
//   - 17 digits decode the trailing three digits as milliseconds.
//   - Anything else returns a *FormatError.
func Decode(s string) (*time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" || v == "0" || v == EpochSentinel {
		return nil, nil
	}
	if !isDigits(v) {
		return nil, &FormatError{Value: s, Reason: "not all decimal digits"}
	}

	switch len(v) {
	case secondsLen:
		t, err := time.ParseInLocation(secondsLayout, v, time.UTC)
		if err != nil {
			return nil, &FormatError{Value: s, Reason: err.Error()}
		}
		return &t, nil
	case millisLen:
		t, err := time.ParseInLocation(secondsLayout, v[:secondsLen], time.UTC)
		if err != nil {
			return nil, &FormatError{Value: s, Reason: err.Error()}
		}
		ms, _ := strconv.Atoi(v[secondsLen:]) // digits already checked
		t = t.Add(time.Duration(ms) * time.Millisecond)
		return &t, nil
	default:
		return nil, &FormatError{Value: s, Reason: fmt.Sprintf("unsupported length %d (expect 14 or 17)", len(v))}
	}
}

// DecodeValue decodes a scalar as returned by a database driver.
// Strings, byte slices and integers are accepted; nil decodes to nil.
func DecodeValue(v any) (*time.Time, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return Decode(x)
	case []byte:
		return Decode(string(x))
	case int:
		return Decode(strconv.FormatInt(int64(x), 10))
	case int32:
		return Decode(strconv.FormatInt(int64(x), 10))
	case int64:
		return Decode(strconv.FormatInt(x, 10))
	case uint64:
		return Decode(strconv.FormatUint(x, 10))
	default:
		return nil, &FormatError{Value: fmt.Sprintf("%v", v), Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

// Encode renders t as the 17-digit form in UTC.
//
// Milliseconds are the half-up rounding of the sub-second part. When that
// rounds to 1000 the sub-second part is dropped and 000 is emitted; the
// seconds field is left as it was.
func Encode(t time.Time) string {
	u := t.UTC()
	ms := (u.Nanosecond() + int(time.Millisecond/2)) / int(time.Millisecond)
	if ms == 1000 {
		u = u.Truncate(time.Second)
		ms = 0
	}
	return u.Format(secondsLayout) + fmt.Sprintf("%03d", ms)
}

// EncodeOptional is Encode for nullable instants.
func EncodeOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Encode(*t)
	return &s
}

// EncodeInt returns the encoded digits as an integer, which is how the
// store keeps the temporal columns.
func EncodeInt(t time.Time) int64 {
	n, _ := strconv.ParseInt(Encode(t), 10, 64) // 17 digits always fit
	return n
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
