package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestLeadContextPopulatesContext(t *testing.T) {
	var gotLead, gotSeller string
	r := chi.NewRouter()
	r.Route("/leads/{leadId}", func(r chi.Router) {
		r.Use(LeadContext(nil))
		r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
			gotLead = LeadIDFromContext(r.Context())
			gotSeller = SellerIDFromContext(r.Context())
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/leads/L-42/cart", nil)
	req.Header.Set("X-Seller-Id", "S-7")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotLead != "L-42" || gotSeller != "S-7" {
		t.Fatalf("unexpected context values lead=%q seller=%q", gotLead, gotSeller)
	}
}

func TestLeadContextRejectsBlankLead(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/leads/{leadId}", func(r chi.Router) {
		r.Use(LeadContext(nil))
		r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler should not run")
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/leads/%20/cart", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	h := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req/../../etc")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	got := resp.Header().Get(requestIDHeader)
	if got == "" || got == "req/../../etc" {
		t.Fatalf("expected a generated request id, got %q", got)
	}
}

func TestRecovererReraisesAbort(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Fatalf("abort panic was swallowed")
}

func TestLeadContextRejectsOversizedLead(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/leads/{leadId}", func(r chi.Router) {
		r.Use(LeadContext(nil))
		r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler should not run")
		})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/leads/"+strings.Repeat("9", 65)+"/cart", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
