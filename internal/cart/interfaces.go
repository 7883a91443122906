package cart

import (
	"context"

	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

// CartService is the external lead/cart service, the source of truth for cart state.
type CartService interface {
	GetLead(ctx context.Context, leadID string) (types.Lead, error)
	GetItems(ctx context.Context, leadID string) ([]types.CartLine, error)
	AddItem(ctx context.Context, leadID string, payload types.ItemPayload) (types.CartLine, error)
	UpdateItem(ctx context.Context, leadID, itemID string, payload types.ItemPayload) (types.CartLine, error)
	RemoveItem(ctx context.Context, leadID, itemID string) error
	CalculateTotals(ctx context.Context, leadID string) (types.CartTotals, error)
	ConvertLead(ctx context.Context, leadID string) (types.ConversionResult, error)
}

// StockSource fetches per-warehouse stock for a product.
type StockSource interface {
	GetStockByWarehouse(ctx context.Context, productID string) (types.StockByWarehouse, error)
}
