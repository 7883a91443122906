package discounts

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/multierr"
)

type stubLoader struct {
	promotions []Promotion
	bundles    []Bundle
	fixed      []FixedPrice
	failing    map[string]bool
	calls      atomic.Int32
}

func (s *stubLoader) fail(name string) error {
	if s.failing[name] {
		return errors.New(name + " offline")
	}
	return nil
}

func (s *stubLoader) ListPromotions(context.Context) ([]Promotion, error) {
	s.calls.Add(1)
	if err := s.fail("promotions"); err != nil {
		return []Promotion{{ProductID: "garbage"}}, err
	}
	return s.promotions, nil
}

func (s *stubLoader) ListQuantityDiscounts(context.Context) ([]QuantityDiscount, error) {
	s.calls.Add(1)
	return nil, s.fail("quantity")
}

func (s *stubLoader) ListLaunches(context.Context) ([]Launch, error) {
	s.calls.Add(1)
	return nil, s.fail("launches")
}

func (s *stubLoader) ListFixedPrices(_ context.Context, customerID string) ([]FixedPrice, error) {
	s.calls.Add(1)
	if err := s.fail("fixed"); err != nil {
		return nil, err
	}
	return s.fixed, nil
}

func (s *stubLoader) ListBundles(context.Context) ([]Bundle, error) {
	s.calls.Add(1)
	if err := s.fail("bundles"); err != nil {
		return nil, err
	}
	return s.bundles, nil
}

func TestLoadSourcesDegradesPerSource(t *testing.T) {
	loader := &stubLoader{
		promotions: []Promotion{{ProductID: "p"}},
		bundles:    []Bundle{{Scope: ProductScope("p"), BundleID: "b"}},
		failing:    map[string]bool{"promotions": true, "launches": true},
	}

	src, err := LoadSources(context.Background(), loader, "cust-1")
	if err == nil {
		t.Fatalf("expected combined error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Fatalf("expected 2 aggregated errors, got %d (%v)", n, err)
	}
	if !strings.Contains(err.Error(), "promotions") || !strings.Contains(err.Error(), "launches") {
		t.Fatalf("unexpected error text %v", err)
	}
	if src.Promotions != nil {
		t.Fatalf("failed source must be empty, got %+v", src.Promotions)
	}
	if len(src.Bundles) != 1 {
		t.Fatalf("healthy sources must still load, got %+v", src.Bundles)
	}
}

func TestLoadSourcesSkipsFixedPricesWithoutCustomer(t *testing.T) {
	loader := &stubLoader{fixed: []FixedPrice{{ProductID: "p"}}}
	src, err := LoadSources(context.Background(), loader, "")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if src.FixedPrices != nil || loader.calls.Load() != 4 {
		t.Fatalf("fixed prices should not load without a customer, calls=%d", loader.calls.Load())
	}
}

func TestProviderCachesUntilTTL(t *testing.T) {
	loader := &stubLoader{promotions: []Promotion{{ProductID: "p", PromoPrice: dec("5")}}}
	now := testNow
	p := NewProvider(loader, nil, WithSourceTTL(time.Minute), WithClock(func() time.Time { return now }))

	first := p.Index(context.Background(), "cust")
	if _, ok := first.Promotion("p"); !ok {
		t.Fatalf("expected promotion in index")
	}
	if second := p.Index(context.Background(), "cust"); second != first {
		t.Fatalf("expected memoized index within ttl")
	}
	if calls := loader.calls.Load(); calls != 5 {
		t.Fatalf("expected a single load, calls=%d", calls)
	}

	now = now.Add(2 * time.Minute)
	if third := p.Index(context.Background(), "cust"); third == first {
		t.Fatalf("expected rebuild after ttl")
	}
	if calls := loader.calls.Load(); calls != 10 {
		t.Fatalf("expected reload after ttl, calls=%d", calls)
	}

	p.Invalidate("cust")
	p.Index(context.Background(), "cust")
	if calls := loader.calls.Load(); calls != 15 {
		t.Fatalf("expected reload after invalidate, calls=%d", calls)
	}
}
