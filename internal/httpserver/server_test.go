package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealthz(t *testing.T) {
	t.Parallel()

	mux := NewRouter(&fakePinger{}, zap.NewNop(), "/mcp", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("healthz status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	pinger := &fakePinger{}
	mux := NewRouter(pinger, zap.NewNop(), "/mcp", nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status %d, want %d", rec.Code, http.StatusOK)
	}

	pinger.err = errors.New("no pool")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz status %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	t.Parallel()

	mux := NewRouter(&fakePinger{}, zap.NewNop(), "/mcp", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("metrics status %d, want %d", rec.Code, http.StatusOK)
	}
}
