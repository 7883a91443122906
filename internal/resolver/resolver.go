package resolver

import (
	"fmt"

	"github.com/angelmondragon/leadquote-backend/internal/discounts"
	"github.com/angelmondragon/leadquote-backend/pkg/enums"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Badge is one discount mechanism that matched a cart line.
type Badge struct {
	Kind        enums.DiscountBadge `json:"kind"`
	Label       string              `json:"label"`
	Price       decimal.NullDecimal `json:"price"`
	DiscountPct decimal.NullDecimal `json:"discount_pct"`
	MinQuantity int                 `json:"min_quantity,omitempty"`
	// Prefill is the price this badge would put in the edit field; invalid when the
	// rule matched the product but not the line quantity.
	Prefill decimal.NullDecimal `json:"-"`
}

// ItemView is the resolved display state of one cart line.
type ItemView struct {
	ItemID            string              `json:"item_id"`
	ScreenPrice       decimal.Decimal     `json:"screen_price"`
	ScreenPriceSource enums.PriceSource   `json:"screen_price_source"`
	PercentOff        decimal.NullDecimal `json:"percent_off"`
	Badges            []Badge             `json:"badges"`
	PrefillPrice      decimal.Decimal     `json:"prefill_price"`
	PrefillSource     string              `json:"prefill_source"`
}

// HasBadge reports whether kind is among the view's badges.
func (v ItemView) HasBadge(kind enums.DiscountBadge) bool {
	for _, b := range v.Badges {
		if b.Kind == kind {
			return true
		}
	}
	return false
}

// Resolve computes badges and the prefill price for one line. Badges are ordered by
// precedence and the first badge with a usable prefill wins; otherwise the list price
// is used.
func Resolve(line types.CartLine, idx *discounts.Index) ItemView {
	screen, source := ScreenPrice(line)
	view := ItemView{
		ItemID:            line.ID,
		ScreenPrice:       screen,
		ScreenPriceSource: source,
		Badges:            []Badge{},
	}
	if pct, ok := PercentOff(screen, line.UnitPrice); ok {
		view.PercentOff = decimal.NewNullDecimal(pct)
	}

	matched := matchBadges(line, screen, idx)
	for _, kind := range enums.DiscountBadgePrecedence() {
		badge, ok := matched[kind]
		if !ok {
			continue
		}
		view.Badges = append(view.Badges, badge)
		if view.PrefillSource == "" && badge.Prefill.Valid {
			view.PrefillPrice = badge.Prefill.Decimal
			view.PrefillSource = kind.String()
		}
	}

	if view.PrefillSource == "" {
		view.PrefillPrice, view.PrefillSource = ListPrice(line)
	}
	return view
}

// ListPrice is the screen price when one is known, otherwise the line's unit price.
func ListPrice(line types.CartLine) (decimal.Decimal, string) {
	if screen, source := ScreenPrice(line); source != enums.PriceSourceNone {
		return screen, enums.PriceSourceListPrice.String()
	}
	return line.UnitPrice, enums.PriceSourceListPrice.String()
}

func matchBadges(line types.CartLine, screen decimal.Decimal, idx *discounts.Index) map[enums.DiscountBadge]Badge {
	productID := line.SKU()
	model := line.Model()
	matched := make(map[enums.DiscountBadge]Badge, 5)

	if fp, ok := idx.FixedPrice(productID); ok {
		matched[enums.DiscountBadgeFixedPrice] = Badge{
			Kind:        enums.DiscountBadgeFixedPrice,
			Label:       "Preço fixo",
			Price:       decimal.NewNullDecimal(fp.Price),
			DiscountPct: fp.DiscountPct,
			Prefill:     decimal.NewNullDecimal(fp.Price),
		}
	}

	if promo, ok := idx.Promotion(productID); ok {
		matched[enums.DiscountBadgePromotion] = Badge{
			Kind:        enums.DiscountBadgePromotion,
			Label:       "Promoção",
			Price:       decimal.NewNullDecimal(promo.PromoPrice),
			DiscountPct: decimal.NewNullDecimal(promo.DiscountPct),
			Prefill:     decimal.NewNullDecimal(promo.PromoPrice),
		}
	}

	if launch, ok := idx.Launch(productID); ok {
		matched[enums.DiscountBadgeLaunch] = Badge{
			Kind:    enums.DiscountBadgeLaunch,
			Label:   "Lançamento",
			Price:   decimal.NewNullDecimal(launch.LaunchPrice),
			Prefill: decimal.NewNullDecimal(launch.LaunchPrice),
		}
	}

	if tiers := idx.QuantityDiscounts(productID, model); len(tiers) > 0 {
		matched[enums.DiscountBadgeQuantity] = quantityBadge(tiers, line.Quantity, screen)
	}

	if bundle, ok := idx.ProductBundle(productID, model); ok {
		badge := Badge{
			Kind:        enums.DiscountBadgeBundle,
			Label:       fmt.Sprintf("Kit %s", bundle.BundleID),
			DiscountPct: decimal.NewNullDecimal(bundle.DiscountPct),
			MinQuantity: bundle.MinQuantity,
		}
		if line.Quantity >= bundle.MinQuantity && screen.IsPositive() {
			price := applyPercent(screen, bundle.DiscountPct)
			badge.Price = decimal.NewNullDecimal(price)
			badge.Prefill = decimal.NewNullDecimal(price)
		}
		matched[enums.DiscountBadgeBundle] = badge
	}

	return matched
}

// quantityBadge describes the tier set; the prefill comes from the tier covering qty.
func quantityBadge(tiers []discounts.QuantityDiscount, qty int, screen decimal.Decimal) Badge {
	badge := Badge{
		Kind:        enums.DiscountBadgeQuantity,
		Label:       tiers[0].Description,
		MinQuantity: tiers[0].MinQty,
	}
	for _, tier := range tiers {
		if !tier.Covers(qty) {
			continue
		}
		badge.Label = tier.Description
		badge.MinQuantity = tier.MinQty
		badge.DiscountPct = tier.DiscountPct
		switch {
		case tier.FlatPrice.Valid:
			badge.Price = tier.FlatPrice
		case tier.DiscountPct.Valid && screen.IsPositive():
			badge.Price = decimal.NewNullDecimal(applyPercent(screen, tier.DiscountPct.Decimal))
		}
		badge.Prefill = badge.Price
		break
	}
	if badge.Label == "" {
		badge.Label = "Desconto por quantidade"
	}
	return badge
}
