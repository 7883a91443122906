package resolver

import (
	"testing"
	"time"

	"github.com/angelmondragon/leadquote-backend/internal/discounts"
	"github.com/angelmondragon/leadquote-backend/pkg/enums"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func nd(v string) decimal.NullDecimal { return decimal.NewNullDecimal(d(v)) }

func line(qty int, unit string) types.CartLine {
	return types.CartLine{
		ID:            "it-1",
		ProductID:     "p-1",
		Product:       &types.Product{ID: "p-1", SKU: "p-1", Model: "AX-100", Price: nd("100")},
		Quantity:      qty,
		UnitPrice:     d(unit),
		OriginalPrice: nd("120"),
	}
}

func TestScreenPriceFallbackChain(t *testing.T) {
	cases := []struct {
		name   string
		line   types.CartLine
		want   string
		source enums.PriceSource
	}{
		{"original", types.CartLine{OriginalPrice: nd("10"), Product: &types.Product{Price: nd("20")}}, "10", enums.PriceSourceOriginal},
		{"product", types.CartLine{Product: &types.Product{Price: nd("20")}}, "20", enums.PriceSourceProduct},
		{"no product", types.CartLine{}, "0", enums.PriceSourceNone},
		{"product without price", types.CartLine{Product: &types.Product{}}, "0", enums.PriceSourceNone},
		{"explicit zero original", types.CartLine{OriginalPrice: nd("0"), Product: &types.Product{Price: nd("20")}}, "0", enums.PriceSourceOriginal},
	}
	for _, tc := range cases {
		got, src := ScreenPrice(tc.line)
		if !got.Equal(d(tc.want)) || src != tc.source {
			t.Fatalf("%s: expected %s/%s, got %s/%s", tc.name, tc.want, tc.source, got, src)
		}
	}
}

func TestPercentOff(t *testing.T) {
	if pct, ok := PercentOff(d("200"), d("150")); !ok || !pct.Equal(d("25")) {
		t.Fatalf("expected 25%%, got %s %v", pct, ok)
	}
	if pct, ok := PercentOff(d("3"), d("2")); !ok || !pct.Equal(d("33.33")) {
		t.Fatalf("expected 33.33%%, got %s", pct)
	}
	for _, tc := range [][2]string{{"0", "10"}, {"100", "100"}, {"100", "120"}, {"-5", "-10"}} {
		if _, ok := PercentOff(d(tc[0]), d(tc[1])); ok {
			t.Fatalf("expected no percent for screen=%s unit=%s", tc[0], tc[1])
		}
	}
}

func TestResolvePrecedenceScenario(t *testing.T) {
	src := discounts.Sources{
		Promotions: []discounts.Promotion{{ProductID: "p-1", PromoPrice: d("95"), DiscountPct: d("20.83")}},
		Launches: []discounts.Launch{{
			ProductID:   "p-1",
			LaunchPrice: d("90"),
			StartsAt:    now.Add(-time.Hour),
			EndsAt:      now.Add(time.Hour),
			Active:      true,
		}},
	}

	view := Resolve(line(1, "110"), discounts.Build(src, now))
	if view.HasBadge(enums.DiscountBadgeFixedPrice) {
		t.Fatalf("fixed price badge must be absent")
	}
	if !view.HasBadge(enums.DiscountBadgePromotion) || !view.HasBadge(enums.DiscountBadgeLaunch) {
		t.Fatalf("expected promotion and launch badges, got %+v", view.Badges)
	}
	if view.PrefillSource != enums.DiscountBadgePromotion.String() || !view.PrefillPrice.Equal(d("95")) {
		t.Fatalf("promotion must drive prefill, got %s %s", view.PrefillSource, view.PrefillPrice)
	}

	src.FixedPrices = []discounts.FixedPrice{{ProductID: "p-1", Price: d("80"), OriginalListPrice: d("120")}}
	view = Resolve(line(1, "110"), discounts.Build(src, now))
	if view.PrefillSource != enums.DiscountBadgeFixedPrice.String() || !view.PrefillPrice.Equal(d("80")) {
		t.Fatalf("fixed price must win prefill, got %s %s", view.PrefillSource, view.PrefillPrice)
	}
	if !view.HasBadge(enums.DiscountBadgePromotion) || !view.HasBadge(enums.DiscountBadgeLaunch) {
		t.Fatalf("other badges still render, got %+v", view.Badges)
	}
	if view.Badges[0].Kind != enums.DiscountBadgeFixedPrice {
		t.Fatalf("badges must be ordered by precedence, got %+v", view.Badges)
	}
}

func TestResolveQuantityTierPrefill(t *testing.T) {
	maxSmall := 9
	src := discounts.Sources{QuantityDiscounts: []discounts.QuantityDiscount{
		{Scope: discounts.FamilyScope("ax"), MinQty: 5, MaxQty: &maxSmall, DiscountPct: nd("10"), Description: "5+"},
		{Scope: discounts.FamilyScope("ax"), MinQty: 10, FlatPrice: nd("99.90"), Description: "10+"},
	}}
	idx := discounts.Build(src, now)

	view := Resolve(line(2, "120"), idx)
	if !view.HasBadge(enums.DiscountBadgeQuantity) {
		t.Fatalf("badge renders even below the first tier")
	}
	if view.PrefillSource != enums.PriceSourceListPrice.String() || !view.PrefillPrice.Equal(d("120")) {
		t.Fatalf("no tier covers qty 2, expected list price, got %s %s", view.PrefillSource, view.PrefillPrice)
	}

	view = Resolve(line(6, "120"), idx)
	if view.PrefillSource != enums.DiscountBadgeQuantity.String() || !view.PrefillPrice.Equal(d("108")) {
		t.Fatalf("expected 10%% off 120, got %s %s", view.PrefillSource, view.PrefillPrice)
	}

	view = Resolve(line(12, "120"), idx)
	if !view.PrefillPrice.Equal(d("99.90")) {
		t.Fatalf("expected flat tier price, got %s", view.PrefillPrice)
	}
}

func TestResolveBundleMinQuantity(t *testing.T) {
	idx := discounts.Build(discounts.Sources{Bundles: []discounts.Bundle{
		{Scope: discounts.ProductScope("p-1"), BundleID: "kit-a", DiscountPct: d("5"), MinQuantity: 3},
	}}, now)

	view := Resolve(line(2, "120"), idx)
	if !view.HasBadge(enums.DiscountBadgeBundle) || view.PrefillSource != enums.PriceSourceListPrice.String() {
		t.Fatalf("bundle below min quantity should not prefill, got %+v", view)
	}

	view = Resolve(line(3, "120"), idx)
	if view.PrefillSource != enums.DiscountBadgeBundle.String() || !view.PrefillPrice.Equal(d("114")) {
		t.Fatalf("expected bundle prefill 114, got %s %s", view.PrefillSource, view.PrefillPrice)
	}
}

func TestResolveWithoutDiscounts(t *testing.T) {
	view := Resolve(line(1, "90"), discounts.Build(discounts.Sources{}, now))
	if len(view.Badges) != 0 {
		t.Fatalf("expected no badges, got %+v", view.Badges)
	}
	if !view.PercentOff.Valid || !view.PercentOff.Decimal.Equal(d("25")) {
		t.Fatalf("expected 25%% off screen price, got %+v", view.PercentOff)
	}
	if !view.PrefillPrice.Equal(d("120")) {
		t.Fatalf("expected list price prefill, got %s", view.PrefillPrice)
	}

	bare := types.CartLine{ID: "x", ProductID: "p-x", Quantity: 1, UnitPrice: d("42")}
	view = Resolve(bare, nil)
	if view.PercentOff.Valid || !view.PrefillPrice.Equal(d("42")) {
		t.Fatalf("expected unit price fallback, got %+v", view)
	}
}
