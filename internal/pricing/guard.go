package pricing

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const (
	ScopeAllItems   = "all"
	scopeItemPrefix = "item:"
)

// ItemScope is the guard scope of a single-item operation.
func ItemScope(itemID string) string {
	return scopeItemPrefix + itemID
}

// Guard is a busy flag per (lead, scope). The in-process flag is always used; when a
// lock store is configured the flag is also held in redis so replicas exclude each other.
type Guard struct {
	mu      sync.Mutex
	running map[string]struct{}
	store   lockStore
	ttl     time.Duration
	logg    *logger.Logger
}

// NewGuard builds a guard. store may be nil.
func NewGuard(store lockStore, ttl time.Duration, logg *logger.Logger) *Guard {
	return &Guard{running: map[string]struct{}{}, store: store, ttl: ttl, logg: logg}
}

// Acquire marks (leadID, scope) busy. It fails with CodeBusy when already held.
// The returned release must be called once the operation finishes.
func (g *Guard) Acquire(ctx context.Context, leadID, scope string) (func(), error) {
	key := leadID + "|" + scope

	g.mu.Lock()
	if _, busy := g.running[key]; busy {
		g.mu.Unlock()
		return nil, busyError(leadID, scope)
	}
	g.running[key] = struct{}{}
	g.mu.Unlock()

	local := func() {
		g.mu.Lock()
		delete(g.running, key)
		g.mu.Unlock()
	}

	if g.store == nil {
		return local, nil
	}

	lock, ok, err := acquireRedisLock(ctx, g.store, leadID, scope, g.ttl)
	if err != nil {
		local()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire pricing lock")
	}
	if !ok {
		local()
		return nil, busyError(leadID, scope)
	}

	return func() {
		if err := lock.release(context.WithoutCancel(ctx)); err != nil && g.logg != nil {
			g.logg.Error(ctx, "release pricing lock", err)
		}
		local()
	}, nil
}

func busyError(leadID, scope string) error {
	return pkgerrors.New(pkgerrors.CodeBusy, "a pricing operation is already running for this cart").
		WithDetails(map[string]string{"lead_id": leadID, "scope": scope})
}
