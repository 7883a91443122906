package pricing

import (
	"strings"

	"github.com/angelmondragon/leadquote-backend/internal/resolver"
	"github.com/angelmondragon/leadquote-backend/pkg/pricingapi"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// RequestContext holds the tenant identifiers sent with every decision request.
type RequestContext struct {
	OrgID   string
	BrandID string
}

// OrderContext sums quantity × screen price over lines with a positive screen price.
// Those lines, and only those, become the order items.
func OrderContext(lines []types.CartLine) (decimal.Decimal, []pricingapi.OrderItem) {
	total := decimal.Zero
	items := make([]pricingapi.OrderItem, 0, len(lines))
	for _, line := range lines {
		screen, _ := resolver.ScreenPrice(line)
		if !screen.IsPositive() {
			continue
		}
		total = total.Add(screen.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, pricingapi.OrderItem{
			SKUID:    line.SKU(),
			Quantity: line.Quantity,
			Price:    screen,
			Model:    line.Model(),
			Brand:    brandOf(line),
		})
	}
	return total, items
}

// Installments is the line's times value when it is a whole number ≥ 1, otherwise 1.
func Installments(line types.CartLine) int {
	if !line.Times.Valid || line.Times.Value < 1 {
		return 1
	}
	return line.Times.Value
}

// BuildRequest assembles the decision request for target within the lead's order.
func BuildRequest(rc RequestContext, lead types.Lead, lines []types.CartLine, target types.CartLine) pricingapi.DecisionRequest {
	orderValue, items := OrderContext(lines)
	return pricingapi.DecisionRequest{
		OrgID:        rc.OrgID,
		BrandID:      rc.BrandID,
		CustomerID:   lead.CustomerID,
		SKUID:        target.SKU(),
		SKUQuantity:  target.Quantity,
		OrderValue:   orderValue,
		ProductBrand: brandOf(target),
		ProductModel: target.Model(),
		Installments: Installments(target),
		OrderItems:   items,
	}
}

func brandOf(line types.CartLine) string {
	if line.Product == nil {
		return ""
	}
	return strings.TrimSpace(line.Product.Brand)
}
