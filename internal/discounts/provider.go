package discounts

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const defaultSourceTTL = 5 * time.Minute

type customerEntry struct {
	sources  Sources
	version  uint64
	loadedAt time.Time
	memo     Memo
}

// Provider hands out per-customer indexes, reloading sources once they are older than
// the TTL and reusing the memoized index otherwise.
type Provider struct {
	loader SourceLoader
	logg   *logger.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*customerEntry
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithSourceTTL sets how long loaded sources are reused.
func WithSourceTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProvider(loader SourceLoader, logg *logger.Logger, opts ...ProviderOption) *Provider {
	p := &Provider{
		loader:  loader,
		logg:    logg,
		ttl:     defaultSourceTTL,
		now:     time.Now,
		entries: map[string]*customerEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Index returns the discount index for a customer. Source failures are logged and the
// affected lists are treated as empty.
func (p *Provider) Index(ctx context.Context, customerID string) *Index {
	now := p.now()

	p.mu.Lock()
	entry, ok := p.entries[customerID]
	if !ok {
		entry = &customerEntry{}
		p.entries[customerID] = entry
	}
	needsLoad := entry.loadedAt.IsZero() || now.Sub(entry.loadedAt) >= p.ttl
	p.mu.Unlock()

	if needsLoad && p.loader != nil {
		src, err := LoadSources(ctx, p.loader, customerID)
		logSourceFailures(ctx, p.logg, customerID, err)

		p.mu.Lock()
		entry.sources = src
		entry.version++
		entry.loadedAt = now
		p.mu.Unlock()
	}

	p.mu.Lock()
	src, version := entry.sources, entry.version
	p.mu.Unlock()
	return entry.memo.Index(src, version, now)
}

// Invalidate forces the next Index call for the customer to reload its sources.
func (p *Provider) Invalidate(customerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[customerID]; ok {
		entry.loadedAt = time.Time{}
	}
}
