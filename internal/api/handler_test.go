package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/tradeledger/internal/domain/dto"
	"github.com/guttosm/tradeledger/internal/domain/models"
	"github.com/guttosm/tradeledger/internal/metrics"
	"github.com/guttosm/tradeledger/internal/middleware"
	"github.com/guttosm/tradeledger/internal/query"
	"github.com/guttosm/tradeledger/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// mockTradeService implements service.TradeHistoryService and records the
// criteria it was called with.
type mockTradeService struct {
	out  []models.TradeRecord
	err  error
	got  query.Criteria
	hits int
}

func (m *mockTradeService) Search(_ context.Context, c query.Criteria) ([]models.TradeRecord, error) {
	m.hits++
	m.got = c
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return m.out, m.err
}

func (m *mockTradeService) Select(context.Context, string) ([]models.TradeRecord, error) {
	return nil, errors.New("not reachable over http")
}

var _ service.TradeHistoryService = (*mockTradeService)(nil)

func sampleRecords() []models.TradeRecord {
	acct, ticket, magic := int64(111), int64(3599795), int64(3599793)
	sym, comment := "EURUSD", "close hedge by #3599791"
	open := time.Date(2023, 2, 9, 8, 43, 34, 0, time.UTC)
	profit := 0.7
	return []models.TradeRecord{{
		ID:             1,
		TradeAccountID: &acct,
		Ticket:         &ticket,
		SymbolName:     &sym,
		OpenTime:       &open,
		Profit:         &profit,
		Magic:          &magic,
		Comment:        &comment,
	}}
}

func setupRouter(svc service.TradeHistoryService, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler)
	h := NewHandler(svc, m)
	r.GET("/api/v1/trades", h.SearchTrades)
	return r
}

func TestSearchTrades_Params(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantCalls  int
		check      func(t *testing.T, c query.Criteria)
	}{
		{
			name:       "defaults",
			url:        "/api/v1/trades",
			wantStatus: http.StatusOK,
			wantCalls:  1,
			check: func(t *testing.T, c query.Criteria) {
				if c.Limit != query.DefaultLimit || c.OrderBy != query.DefaultOrderBy || c.OrderDir != query.DefaultOrderDir {
					t.Fatalf("defaults not applied: %+v", c)
				}
			},
		},
		{
			name:       "all filters",
			url:        "/api/v1/trades?account_id=111&ticket=3599795&symbol=EURUSD&opened_from=2023-02-09&closed_to=2023-02-10T00:00:00Z&comment_like=hedge&limit=5&offset=10&order_by=Ticket&order_dir=DESC",
			wantStatus: http.StatusOK,
			wantCalls:  1,
			check: func(t *testing.T, c query.Criteria) {
				if c.AccountID == nil || *c.AccountID != 111 || c.Ticket == nil || *c.Ticket != 3599795 {
					t.Fatalf("ids: %+v", c)
				}
				if c.Symbol != "EURUSD" || c.CommentLike != "hedge" {
					t.Fatalf("strings: %+v", c)
				}
				if c.OpenedFrom == nil || !c.OpenedFrom.Equal(time.Date(2023, 2, 9, 0, 0, 0, 0, time.UTC)) {
					t.Fatalf("opened_from: %v", c.OpenedFrom)
				}
				if c.ClosedTo == nil || c.OpenedTo != nil || c.ClosedFrom != nil {
					t.Fatalf("close range: %+v", c)
				}
				if c.Limit != 5 || c.Offset != 10 || c.OrderBy != "Ticket" || c.OrderDir != "DESC" {
					t.Fatalf("paging: %+v", c)
				}
			},
		},
		{name: "bad account", url: "/api/v1/trades?account_id=abc", wantStatus: http.StatusBadRequest},
		{name: "bad datetime", url: "/api/v1/trades?opened_from=09/02/2023", wantStatus: http.StatusBadRequest},
		{name: "bad limit", url: "/api/v1/trades?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "bad format", url: "/api/v1/trades?format=xml", wantStatus: http.StatusBadRequest},
		{name: "xlsx not served", url: "/api/v1/trades?format=xlsx", wantStatus: http.StatusBadRequest},
		{name: "lower-case order dir", url: "/api/v1/trades?order_dir=desc", wantStatus: http.StatusBadRequest, wantCalls: 1},
		// parses, then fails validation in the service
		{name: "limit out of range", url: "/api/v1/trades?limit=0", wantStatus: http.StatusBadRequest, wantCalls: 1},
		{name: "unknown order column", url: "/api/v1/trades?order_by=Comment", wantStatus: http.StatusBadRequest, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTradeService{out: sampleRecords()}
			r := setupRouter(svc, nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if svc.hits != tt.wantCalls {
				t.Fatalf("want %d service calls, got %d", tt.wantCalls, svc.hits)
			}
			if tt.check != nil {
				tt.check(t, svc.got)
			}
			if w.Code == http.StatusBadRequest {
				var er dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Message == "" {
					t.Fatalf("expected error body, got %s", w.Body.String())
				}
			}
		})
	}
}

func TestSearchTrades_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		r := setupRouter(&mockTradeService{out: sampleRecords()}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status %d", w.Code)
		}
		var out []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(out) != 1 || out[0]["open_time"] != "2023-02-09T08:43:34.000Z" || out[0]["close_time"] != nil {
			t.Fatalf("unexpected body %v", out)
		}
	})

	t.Run("json empty is array", func(t *testing.T) {
		r := setupRouter(&mockTradeService{}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("want [], got %s", w.Body.String())
		}
	})

	t.Run("jsonl", func(t *testing.T) {
		r := setupRouter(&mockTradeService{out: sampleRecords()}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades?format=jsonl", nil))
		if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
			t.Fatalf("content type %q", ct)
		}
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		if len(lines) != 1 || !strings.Contains(lines[0], `"symbol_name":"EURUSD"`) {
			t.Fatalf("unexpected body %q", w.Body.String())
		}
	})

	t.Run("csv", func(t *testing.T) {
		r := setupRouter(&mockTradeService{out: sampleRecords()}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades?format=CSV", nil))
		if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
			t.Fatalf("content type %q", w.Header().Get("Content-Type"))
		}
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		if len(lines) != 2 || !strings.HasPrefix(lines[0], dto.TradeRecordFields[0]) {
			t.Fatalf("unexpected csv %q", w.Body.String())
		}
	})
}

func TestSearchTrades_ServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "store failure", err: errors.New("connection reset"), want: http.StatusInternalServerError},
		{name: "deadline", err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&mockTradeService{err: tt.err}, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))
			if w.Code != tt.want {
				t.Fatalf("want %d got %d", tt.want, w.Code)
			}
		})
	}
}

func TestSearchTrades_CountsRecordsServed(t *testing.T) {
	m := metrics.New()
	recs := append(sampleRecords(), sampleRecords()...)
	r := setupRouter(&mockTradeService{out: recs}, m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/trades", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := testutil.ToFloat64(m.RecordsServed); got != 2 {
		t.Fatalf("records served = %v, want 2", got)
	}
}
