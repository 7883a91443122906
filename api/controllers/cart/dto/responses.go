package cartdto

import (
	"github.com/angelmondragon/leadquote-backend/internal/stock"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

// StockStatus is the reconciliation view returned by the stock endpoints.
type StockStatus struct {
	Issues     []stock.Issue    `json:"issues"`
	Conversion stock.GateResult `json:"conversion"`
}

// ItemRemoved acknowledges a deleted line.
type ItemRemoved struct {
	ItemID string           `json:"item_id"`
	Totals types.CartTotals `json:"totals"`
}
