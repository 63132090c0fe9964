package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		ping func(ctx context.Context) error
		path string
		want int
	}{
		{name: "healthz ok", path: "/healthz", want: 200},
		{name: "healthz ignores db", ping: func(context.Context) error { return errors.New("down") }, path: "/healthz", want: 200},
		{name: "readyz without db", path: "/readyz", want: 200},
		{name: "readyz ok", ping: func(context.Context) error { return nil }, path: "/readyz", want: 200},
		{name: "readyz degraded", ping: func(context.Context) error { return errors.New("down") }, path: "/readyz", want: 503},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.ping).Register(r)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
		})
	}
}

func TestHealthHandler_ReadyzTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHealthHandler(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h.timeout = 10 * time.Millisecond

	r := gin.New()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 got %d", w.Code)
	}
}
