package enums

import "fmt"

// DiscountBadge identifies which discount mechanism a cart line badge represents.
type DiscountBadge string

const (
	DiscountBadgeFixedPrice DiscountBadge = "fixed_price"
	DiscountBadgePromotion  DiscountBadge = "promotion"
	DiscountBadgeLaunch     DiscountBadge = "launch"
	DiscountBadgeQuantity   DiscountBadge = "quantity_discount"
	DiscountBadgeBundle     DiscountBadge = "bundle"
)

// validDiscountBadges is ordered by display-price precedence, highest first.
var validDiscountBadges = []DiscountBadge{
	DiscountBadgeFixedPrice,
	DiscountBadgePromotion,
	DiscountBadgeLaunch,
	DiscountBadgeQuantity,
	DiscountBadgeBundle,
}

// DiscountBadgePrecedence returns badges ordered from highest to lowest precedence.
func DiscountBadgePrecedence() []DiscountBadge {
	out := make([]DiscountBadge, len(validDiscountBadges))
	copy(out, validDiscountBadges)
	return out
}

// String implements fmt.Stringer.
func (d DiscountBadge) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountBadge.
func (d DiscountBadge) IsValid() bool {
	for _, candidate := range validDiscountBadges {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountBadge converts raw input into a DiscountBadge.
func ParseDiscountBadge(value string) (DiscountBadge, error) {
	for _, candidate := range validDiscountBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount badge %q", value)
}
