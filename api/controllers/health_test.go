package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/leadquote-backend/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadyReportsDisabledRedis(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	h := HealthReady(cfg, nil, stubPinger{}, nil)

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if resp.Header().Get(envHeader) != "dev" {
		t.Fatalf("missing env header")
	}
}

func TestHealthReadyFailsWhenDatabaseDown(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	h := HealthReady(cfg, nil, stubPinger{err: errors.New("refused")}, stubPinger{})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
