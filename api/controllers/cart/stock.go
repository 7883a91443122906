package cart

import (
	"net/http"

	cartdto "github.com/angelmondragon/leadquote-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/leadquote-backend/api/responses"
	"github.com/angelmondragon/leadquote-backend/api/validators"
	"github.com/angelmondragon/leadquote-backend/internal/stock"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
)

// StockRefresh fetches stock for every cart product and recomputes issues.
// ?force=true discards cached stock first.
func StockRefresh(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		force, err := validators.ParseQueryBool(r, "force", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		issues := c.RefreshStock(r.Context(), force)
		responses.WriteSuccess(w, cartdto.StockStatus{Issues: issues, Conversion: stock.Gate(issues)})
	}
}

// StockIssues returns the last computed issues without fetching.
func StockIssues(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		issues := c.StockIssues()
		responses.WriteSuccess(w, cartdto.StockStatus{Issues: issues, Conversion: stock.Gate(issues)})
	}
}

// LeadConvert turns the lead into an order once no stock issue blocks it. Stock for
// products not yet fetched is loaded first so the gate sees every line.
func LeadConvert(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := containerFor(w, r, reg, logg)
		if !ok {
			return
		}
		c.RefreshStock(r.Context(), false)
		result, err := c.Convert(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
