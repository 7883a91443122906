package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/leadquote-backend/internal/stock"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/metrics"
)

// RegistryParams configure the container registry.
type RegistryParams struct {
	Service    CartService
	Stock      StockSource
	Warehouses stock.WarehouseMap
	Metrics    *metrics.QuoteMetrics
	Logger     *logger.Logger
	Clock      func() time.Time
}

// Registry keeps one Container per lead. Each container owns its own stock fetcher, so
// evicting a container is what discards its cached stock.
type Registry struct {
	params RegistryParams
	now    func() time.Time

	mu         sync.Mutex
	containers map[string]*Container
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Service == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Registry{params: params, now: clock, containers: map[string]*Container{}}, nil
}

// Get returns the lead's container, loading it on first use.
func (r *Registry) Get(ctx context.Context, leadID string) (*Container, error) {
	r.mu.Lock()
	c, ok := r.containers[leadID]
	if !ok {
		var err error
		c, err = NewContainer(ContainerParams{
			LeadID:     leadID,
			Service:    r.params.Service,
			Fetcher:    stock.NewFetcher(r.params.Stock, r.params.Metrics, r.params.Logger),
			Warehouses: r.params.Warehouses,
			Logger:     r.params.Logger,
			Clock:      r.now,
		})
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.containers[leadID] = c
	}
	r.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		if !ok {
			r.Evict(leadID)
		}
		return nil, err
	}
	return c, nil
}

// Evict drops a lead's container.
func (r *Registry) Evict(leadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, leadID)
}

// Len reports how many containers are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.containers)
}

// Sweep evicts containers idle for longer than maxIdle and returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, c := range r.containers {
		if c.LastUsed().Before(cutoff) {
			delete(r.containers, id)
			removed++
		}
	}
	return removed
}
