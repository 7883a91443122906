package stock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	fail    atomic.Bool
}

func (s *countingSource) GetStockByWarehouse(_ context.Context, productID string) (types.StockByWarehouse, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.fail.Load() {
		return types.StockByWarehouse{}, errors.New("stock service down")
	}
	return types.StockByWarehouse{
		Warehouses:     []types.WarehouseStock{{ID: "109", Name: productID, Available: 5}},
		TotalAvailable: 5,
	}, nil
}

func TestFetcherCachesCompletedFetch(t *testing.T) {
	src := &countingSource{}
	f := NewFetcher(src, nil, nil)

	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), "p1"); err != nil {
			t.Fatalf("fetch: %v", err)
		}
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", src.calls.Load())
	}
	if _, ok := f.Cached("p1"); !ok {
		t.Fatalf("expected cached entry")
	}
}

func TestFetcherSuppressesInFlightDuplicates(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	f := NewFetcher(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Fetch(context.Background(), "p1"); err != nil {
				t.Errorf("fetch: %v", err)
			}
		}()
	}

	deadline := time.Now().Add(time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single in-flight call, got %d", got)
	}
}

func TestFetcherDoesNotCacheFailures(t *testing.T) {
	src := &countingSource{}
	src.fail.Store(true)
	f := NewFetcher(src, nil, nil)

	if _, err := f.Fetch(context.Background(), "p1"); err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := f.Cached("p1"); ok {
		t.Fatalf("failure must not be cached")
	}

	src.fail.Store(false)
	if _, err := f.Fetch(context.Background(), "p1"); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if src.calls.Load() != 2 {
		t.Fatalf("expected retry to reach upstream, got %d calls", src.calls.Load())
	}
}

func TestFetchAllDeduplicatesAndResets(t *testing.T) {
	src := &countingSource{}
	f := NewFetcher(src, nil, nil)

	got, err := f.FetchAll(context.Background(), []string{"p1", "p2", "p1", ""})
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(got) != 2 || src.calls.Load() != 2 {
		t.Fatalf("unexpected result %v calls=%d", got, src.calls.Load())
	}

	f.Reset()
	if len(f.Snapshot()) != 0 {
		t.Fatalf("expected empty cache after reset")
	}
	f.Fetch(context.Background(), "p1")
	f.Forget("p1")
	if _, ok := f.Cached("p1"); ok {
		t.Fatalf("expected p1 forgotten")
	}
}
