package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	cartsvc "github.com/angelmondragon/leadquote-backend/internal/cart"
	"github.com/angelmondragon/leadquote-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

// unavailableRegistry proves a route reached its handler without a sales service.
type unavailableRegistry struct {
	leads []string
}

func (r *unavailableRegistry) Get(_ context.Context, leadID string) (*cartsvc.Container, error) {
	r.leads = append(r.leads, leadID)
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "sales api unavailable")
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Port: "0"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(cfg *config.Config, reg *unavailableRegistry, gatherer prometheus.Gatherer) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, Deps{
		DB:       stubPinger{},
		Carts:    reg,
		Gatherer: gatherer,
	})
}

func TestLeadRoutesReachHandlers(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/leads/L1/cart"},
		{http.MethodPost, "/api/v1/leads/L1/cart/items"},
		{http.MethodPut, "/api/v1/leads/L1/cart/items/i1"},
		{http.MethodPatch, "/api/v1/leads/L1/cart/items/i1"},
		{http.MethodDelete, "/api/v1/leads/L1/cart/items/i1"},
		{http.MethodPost, "/api/v1/leads/L1/cart/stock/refresh"},
		{http.MethodGet, "/api/v1/leads/L1/cart/stock/issues"},
		{http.MethodPost, "/api/v1/leads/L1/convert"},
	}

	for _, tc := range cases {
		reg := &unavailableRegistry{}
		router := newTestRouter(testConfig(), reg, nil)

		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503 from the handler, got %d", tc.method, tc.path, resp.Code)
		}
		if len(reg.leads) != 1 || reg.leads[0] != "L1" {
			t.Fatalf("%s %s: expected registry lookup for L1, got %v", tc.method, tc.path, reg.leads)
		}
	}
}

func TestPricingRoutesRequireService(t *testing.T) {
	router := newTestRouter(testConfig(), &unavailableRegistry{}, nil)

	for _, path := range []string{
		"/api/v1/leads/L1/cart/items/i1/pricing",
		"/api/v1/leads/L1/cart/items/i1/pricing/apply",
		"/api/v1/leads/L1/cart/pricing/calculate-all",
		"/api/v1/leads/L1/cart/pricing/apply-all",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, nil))
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500 without pricing service, got %d", path, resp.Code)
		}
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), &unavailableRegistry{}, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewQuoteMetrics(reg)
	m.ObserveStockFetch(nil)

	router := newTestRouter(testConfig(), &unavailableRegistry{}, reg)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "warehouse_stock_fetches_total") {
		t.Fatalf("expected stock fetch counter, got %s", resp.Body.String())
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	router := newTestRouter(cfg, &unavailableRegistry{}, prometheus.NewRegistry())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
