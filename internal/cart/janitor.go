package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultIdleTTL       = 30 * time.Minute
)

// JanitorParams configure the idle container sweeper.
type JanitorParams struct {
	Registry *Registry
	Logger   *logger.Logger
	Interval time.Duration
	IdleTTL  time.Duration
}

// Janitor evicts idle lead containers on a fixed cadence.
type Janitor struct {
	registry *Registry
	logg     *logger.Logger
	interval time.Duration
	idleTTL  time.Duration
}

func NewJanitor(params JanitorParams) (*Janitor, error) {
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	idle := params.IdleTTL
	if idle <= 0 {
		idle = defaultIdleTTL
	}
	return &Janitor{registry: params.Registry, logg: params.Logger, interval: interval, idleTTL: idle}, nil
}

// Run sweeps until the context is canceled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	if removed := j.registry.Sweep(j.idleTTL); removed > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"evicted":   removed,
			"remaining": j.registry.Len(),
		}), "idle cart containers evicted")
	}
}
