package stock

import (
	"context"
	"sync"

	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/metrics"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type source interface {
	GetStockByWarehouse(ctx context.Context, productID string) (types.StockByWarehouse, error)
}

// Fetcher loads per-warehouse stock once per product. Concurrent requests for the same
// product share one call; successful results are cached for the fetcher's lifetime and
// failures are not, so a later call retries. Cached data is never refreshed unless
// Forget or Reset is called.
type Fetcher struct {
	src     source
	metrics *metrics.QuoteMetrics
	logg    *logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]types.StockByWarehouse
}

func NewFetcher(src source, m *metrics.QuoteMetrics, logg *logger.Logger) *Fetcher {
	if m == nil {
		m = metrics.NewQuoteMetrics(nil)
	}
	return &Fetcher{
		src:     src,
		metrics: m,
		logg:    logg,
		cache:   map[string]types.StockByWarehouse{},
	}
}

// Cached returns the stored stock for a product without fetching.
func (f *Fetcher) Cached(productID string) (types.StockByWarehouse, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.cache[productID]
	return s, ok
}

// Snapshot copies every cached entry.
func (f *Fetcher) Snapshot() map[string]types.StockByWarehouse {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]types.StockByWarehouse, len(f.cache))
	for id, s := range f.cache {
		out[id] = s
	}
	return out
}

// Fetch returns cached stock or loads it.
func (f *Fetcher) Fetch(ctx context.Context, productID string) (types.StockByWarehouse, error) {
	if s, ok := f.Cached(productID); ok {
		return s, nil
	}

	v, err, _ := f.group.Do(productID, func() (any, error) {
		if s, ok := f.Cached(productID); ok {
			return s, nil
		}
		s, err := f.src.GetStockByWarehouse(ctx, productID)
		f.metrics.ObserveStockFetch(err)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.cache[productID] = s
		f.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return types.StockByWarehouse{}, err
	}
	return v.(types.StockByWarehouse), nil
}

// FetchAll loads every product concurrently. Failures are logged and the product is
// left out of the result; the first failure is also returned.
func (f *Fetcher) FetchAll(ctx context.Context, productIDs []string) (map[string]types.StockByWarehouse, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]types.StockByWarehouse, len(productIDs))
		g   errgroup.Group
	)
	seen := map[string]struct{}{}
	for _, id := range productIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		id := id

		g.Go(func() error {
			s, err := f.Fetch(ctx, id)
			if err != nil {
				if f.logg != nil {
					f.logg.Warn(f.logg.WithFields(ctx, map[string]any{"product_id": id, "error": err.Error()}), "stock fetch failed")
				}
				return err
			}
			mu.Lock()
			out[id] = s
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return out, err
}

// Forget drops one product from the cache.
func (f *Fetcher) Forget(productID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, productID)
}

// Reset clears the cache.
func (f *Fetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = map[string]types.StockByWarehouse{}
}
