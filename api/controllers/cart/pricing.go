package cart

import (
	"context"
	"net/http"

	"github.com/angelmondragon/leadquote-backend/api/responses"
	"github.com/angelmondragon/leadquote-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

// PricingService is the orchestrator surface used by the pricing handlers.
type PricingService interface {
	Calculate(ctx context.Context, cart pricing.Cart, itemID string) (types.PricingResult, error)
	Apply(ctx context.Context, cart pricing.Cart, itemID string) (types.PricingResult, error)
	CalculateAll(ctx context.Context, cart pricing.Cart) (pricing.BatchSummary, error)
	ApplyAll(ctx context.Context, cart pricing.Cart) (pricing.BatchSummary, error)
}

// ItemPricingCalculate previews the recommended price of one line.
func ItemPricingCalculate(reg Registry, svc PricingService, logg *logger.Logger) http.HandlerFunc {
	return itemPricing(reg, svc, logg, PricingService.Calculate)
}

// ItemPricingApply writes the recommended price of one line to the cart.
func ItemPricingApply(reg Registry, svc PricingService, logg *logger.Logger) http.HandlerFunc {
	return itemPricing(reg, svc, logg, PricingService.Apply)
}

// PricingCalculateAll previews prices for every valid line, one call at a time.
func PricingCalculateAll(reg Registry, svc PricingService, logg *logger.Logger) http.HandlerFunc {
	return batchPricing(reg, svc, logg, PricingService.CalculateAll)
}

// PricingApplyAll prices and persists every valid line, then reloads the cart once.
func PricingApplyAll(reg Registry, svc PricingService, logg *logger.Logger) http.HandlerFunc {
	return batchPricing(reg, svc, logg, PricingService.ApplyAll)
}

type itemOp func(PricingService, context.Context, pricing.Cart, string) (types.PricingResult, error)

type batchOp func(PricingService, context.Context, pricing.Cart) (pricing.BatchSummary, error)

func itemPricing(reg Registry, svc PricingService, logg *logger.Logger, op itemOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(w, r, logg)
		if !ok {
			return
		}

		result, err := op(svc, r.Context(), c, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func batchPricing(reg Registry, svc PricingService, logg *logger.Logger, op batchOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}

		summary, err := op(svc, r.Context(), c)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCanceled && typed.Details() == nil {
				typed.WithDetails(summary)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, summary, summary.Message)
	}
}
