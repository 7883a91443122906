package discounts

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Scope targets either one product id or a product-family prefix, never both.
type Scope struct {
	ProductID string `json:"sku_id,omitempty"`
	Family    string `json:"product_family,omitempty"`
}

// ProductScope targets a single product.
func ProductScope(productID string) Scope {
	return Scope{ProductID: strings.TrimSpace(productID)}
}

// FamilyScope targets every product whose model starts with prefix.
func FamilyScope(prefix string) Scope {
	return Scope{Family: strings.TrimSpace(prefix)}
}

// IsFamily reports whether the scope is a family prefix.
func (s Scope) IsFamily() bool {
	return s.ProductID == "" && s.Family != ""
}

// Valid reports whether exactly one of product id or family is set.
func (s Scope) Valid() bool {
	return (s.ProductID == "") != (s.Family == "")
}

// FixedPrice is a customer-specific negotiated price.
type FixedPrice struct {
	ProductID         string              `json:"sku_id"`
	Price             decimal.Decimal     `json:"price"`
	ValidUntil        *time.Time          `json:"valid_until,omitempty"`
	OriginalListPrice decimal.Decimal     `json:"original_list_price"`
	DiscountPct       decimal.NullDecimal `json:"discount_pct"`
}

// Promotion is a storewide promotional price.
type Promotion struct {
	ProductID   string          `json:"sku_id"`
	PromoPrice  decimal.Decimal `json:"promo_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// Launch is a launch price valid within [StartsAt, EndsAt] while Active.
type Launch struct {
	ProductID    string          `json:"sku_id"`
	LaunchPrice  decimal.Decimal `json:"launch_price"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	StartsAt     time.Time       `json:"launch_start"`
	EndsAt       time.Time       `json:"launch_end"`
	Active       bool            `json:"is_active"`
}

// ActiveAt reports whether the launch applies at now.
func (l Launch) ActiveAt(now time.Time) bool {
	return l.Active && !now.Before(l.StartsAt) && !now.After(l.EndsAt)
}

// QuantityDiscount is a quantity tier. Exactly one of DiscountPct or FlatPrice is expected.
type QuantityDiscount struct {
	Scope       Scope               `json:"scope"`
	MinQty      int                 `json:"min_qty"`
	MaxQty      *int                `json:"max_qty,omitempty"`
	DiscountPct decimal.NullDecimal `json:"discount_pct"`
	FlatPrice   decimal.NullDecimal `json:"flat_price"`
	Description string              `json:"description"`
}

// Covers reports whether qty falls within [MinQty, MaxQty]; a nil MaxQty is unbounded.
func (q QuantityDiscount) Covers(qty int) bool {
	if qty < q.MinQty {
		return false
	}
	return q.MaxQty == nil || qty <= *q.MaxQty
}

// Bundle is a bundle discount applied from MinQuantity units.
type Bundle struct {
	Scope       Scope           `json:"scope"`
	BundleID    string          `json:"bundle_id"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	MinQuantity int             `json:"min_quantity"`
}

// Sources are the raw discount lists an Index is built from.
type Sources struct {
	Promotions        []Promotion
	QuantityDiscounts []QuantityDiscount
	Launches          []Launch
	FixedPrices       []FixedPrice
	Bundles           []Bundle
}
