package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse_Error(t *testing.T) {
	cases := []struct {
		name string
		in   ErrorResponse
		want string
	}{
		{name: "message only", in: ErrorResponse{Message: "invalid format"}, want: "invalid format"},
		{name: "with details", in: ErrorResponse{Message: "invalid search criteria", ErrorDetails: "limit: must be between 1 and 10000, got 0"}, want: "invalid search criteria: limit: must be between 1 and 10000, got 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Error(); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	e := NewErrorResponse("rate limit exceeded", nil)
	if e.Message != "rate limit exceeded" || e.ErrorDetails != "" {
		t.Fatalf("unexpected %+v", e)
	}
	if e.Timestamp.Location() != time.UTC || time.Since(e.Timestamp) > time.Second {
		t.Fatalf("timestamp not set in UTC: %v", e.Timestamp)
	}

	// wrapped causes keep their full text
	err := fmt.Errorf("opened_from: %w", errors.New(`invalid datetime "09/02/2023"`))
	e2 := NewErrorResponse("invalid query parameter", err)
	if e2.ErrorDetails != `opened_from: invalid datetime "09/02/2023"` {
		t.Fatalf("unexpected details %q", e2.ErrorDetails)
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("invalid format", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "error_details") {
		t.Fatalf("empty details must be omitted: %s", b)
	}

	b, err = json.Marshal(NewErrorResponse("internal error", errors.New("boom")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["message"] != "internal error" || out["error_details"] != "boom" {
		t.Fatalf("unexpected body %v", out)
	}
	if ts, _ := out["timestamp"].(string); !strings.HasSuffix(ts, "Z") {
		t.Fatalf("timestamp not UTC: %v", out["timestamp"])
	}
}
