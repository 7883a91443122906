package resolver

import (
	"github.com/angelmondragon/leadquote-backend/pkg/enums"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ScreenPrice walks originalPrice, then product.price, then zero, and reports which
// level supplied the value. Zero is returned with PriceSourceNone.
func ScreenPrice(line types.CartLine) (decimal.Decimal, enums.PriceSource) {
	if line.OriginalPrice.Valid {
		return line.OriginalPrice.Decimal, enums.PriceSourceOriginal
	}
	if line.Product != nil && line.Product.Price.Valid {
		return line.Product.Price.Decimal, enums.PriceSourceProduct
	}
	return decimal.Zero, enums.PriceSourceNone
}

// PercentOff is (screen - unit) / screen × 100, rounded to two places. ok is false unless
// screen > 0 and unit < screen.
func PercentOff(screen, unit decimal.Decimal) (decimal.Decimal, bool) {
	if !screen.IsPositive() || !unit.LessThan(screen) {
		return decimal.Zero, false
	}
	return screen.Sub(unit).Div(screen).Mul(hundred).Round(2), true
}

// applyPercent reduces price by pct percent.
func applyPercent(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
}
