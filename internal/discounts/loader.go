package discounts

import (
	"context"
	"fmt"

	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// SourceLoader lists the raw discount sources.
type SourceLoader interface {
	ListPromotions(ctx context.Context) ([]Promotion, error)
	ListQuantityDiscounts(ctx context.Context) ([]QuantityDiscount, error)
	ListLaunches(ctx context.Context) ([]Launch, error)
	ListFixedPrices(ctx context.Context, customerID string) ([]FixedPrice, error)
	ListBundles(ctx context.Context) ([]Bundle, error)
}

// LoadSources fetches every source concurrently. A failing source degrades to an empty
// list; the combined failure is returned for logging only and never blocks the others.
func LoadSources(ctx context.Context, loader SourceLoader, customerID string) (Sources, error) {
	var (
		src                                 Sources
		promoErr, qtyErr, launchErr, fixErr error
		bundleErr                           error
		g                                   errgroup.Group
	)

	g.Go(func() error {
		src.Promotions, promoErr = loader.ListPromotions(ctx)
		return nil
	})
	g.Go(func() error {
		src.QuantityDiscounts, qtyErr = loader.ListQuantityDiscounts(ctx)
		return nil
	})
	g.Go(func() error {
		src.Launches, launchErr = loader.ListLaunches(ctx)
		return nil
	})
	g.Go(func() error {
		if customerID == "" {
			return nil
		}
		src.FixedPrices, fixErr = loader.ListFixedPrices(ctx, customerID)
		return nil
	})
	g.Go(func() error {
		src.Bundles, bundleErr = loader.ListBundles(ctx)
		return nil
	})
	_ = g.Wait()

	var combined error
	if promoErr != nil {
		src.Promotions = nil
		combined = multierr.Append(combined, fmt.Errorf("promotions: %w", promoErr))
	}
	if qtyErr != nil {
		src.QuantityDiscounts = nil
		combined = multierr.Append(combined, fmt.Errorf("quantity discounts: %w", qtyErr))
	}
	if launchErr != nil {
		src.Launches = nil
		combined = multierr.Append(combined, fmt.Errorf("launches: %w", launchErr))
	}
	if fixErr != nil {
		src.FixedPrices = nil
		combined = multierr.Append(combined, fmt.Errorf("fixed prices: %w", fixErr))
	}
	if bundleErr != nil {
		src.Bundles = nil
		combined = multierr.Append(combined, fmt.Errorf("bundles: %w", bundleErr))
	}
	return src, combined
}

// logSourceFailures writes one warning per failed source.
func logSourceFailures(ctx context.Context, logg *logger.Logger, customerID string, err error) {
	if logg == nil || err == nil {
		return
	}
	for _, e := range multierr.Errors(err) {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"customer_id": customerID,
			"error":       e.Error(),
		}), "discount source unavailable, using empty list")
	}
}
