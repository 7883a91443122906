package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/leadquote-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/leadquote-backend/api/middleware"
	"github.com/angelmondragon/leadquote-backend/api/responses"
	"github.com/angelmondragon/leadquote-backend/api/validators"
	cartsvc "github.com/angelmondragon/leadquote-backend/internal/cart"
	"github.com/angelmondragon/leadquote-backend/internal/discounts"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

// Registry resolves the state container of a lead.
type Registry interface {
	Get(ctx context.Context, leadID string) (*cartsvc.Container, error)
}

// DiscountIndexer returns the discount index for a customer.
type DiscountIndexer interface {
	Index(ctx context.Context, customerID string) *discounts.Index
}

// CartFetch returns the cart with resolved badges, pricing results and stock state.
// ?reload=true refetches the cart from the sales service first.
func CartFetch(reg Registry, idx DiscountIndexer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}

		reload, err := validators.ParseQueryBool(r, "reload", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if reload {
			if err := c.Reload(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		c.RefreshStock(r.Context(), false)

		var index *discounts.Index
		if idx != nil {
			index = idx.Index(r.Context(), c.Lead().CustomerID)
		}
		responses.WriteSuccess(w, c.Overview(index))
	}
}

// ItemAdd appends a product line to the lead cart.
func ItemAdd(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}

		var payload cartdto.ItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := c.AddItem(r.Context(), toItemPayload(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

// ItemReplace overwrites every editable field of a line.
func ItemReplace(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(w, r, logg)
		if !ok {
			return
		}

		var payload cartdto.ItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := c.UpdateItem(r.Context(), itemID, toItemPayload(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// ItemInlineEdit changes quantity, price or installments of a line from the cart table.
func ItemInlineEdit(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(w, r, logg)
		if !ok {
			return
		}

		var payload cartdto.InlineEditRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		field, err := cartsvc.ParseInlineField(payload.Field)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := c.InlineEdit(r.Context(), itemID, field, string(payload.Value))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// ItemRemove deletes a line and returns the refreshed totals.
func ItemRemove(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		itemID, ok := itemIDParam(w, r, logg)
		if !ok {
			return
		}

		if err := c.RemoveItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartdto.ItemRemoved{ItemID: itemID, Totals: c.Totals()})
	}
}

func containerFor(w http.ResponseWriter, r *http.Request, reg Registry, logg *logger.Logger) (*cartsvc.Container, bool) {
	if reg == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart registry unavailable"))
		return nil, false
	}
	leadID := middleware.LeadIDFromContext(r.Context())
	if leadID == "" {
		var err error
		if leadID, err = validators.ParseID("lead id", chi.URLParam(r, "leadId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return nil, false
		}
	}
	c, err := reg.Get(r.Context(), leadID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return c, true
}

func itemIDParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	itemID, err := validators.ParseID("item id", chi.URLParam(r, "itemId"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return "", false
	}
	return itemID, true
}
