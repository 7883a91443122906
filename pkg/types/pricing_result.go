package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PricingResult is the outcome of a pricing decision for one cart line. It is held in
// memory only and cleared on every cart reload.
type PricingResult struct {
	ItemID           string              `json:"item_id"`
	RecommendedPrice decimal.Decimal     `json:"recommended_price"`
	RawPrice         decimal.Decimal     `json:"raw_price"`
	PriceOrigin      string              `json:"price_origin"`
	DiscountAllowed  decimal.NullDecimal `json:"discount_allowed"`
	TotalDiscount    decimal.NullDecimal `json:"total_discount"`
	AppliedMode      string              `json:"applied_mode,omitempty"`
	TierCode         string              `json:"tier_code,omitempty"`
	Explanation      json.RawMessage     `json:"explanation,omitempty"`
	Reason           string              `json:"reason,omitempty"`
	DecisionType     string              `json:"decision_type,omitempty"`
	Applied          bool                `json:"applied"`
	CalculatedAt     time.Time           `json:"calculated_at"`
}
