package enums

import "testing"

func TestDiscountBadgePrecedenceOrder(t *testing.T) {
	got := DiscountBadgePrecedence()
	want := []DiscountBadge{
		DiscountBadgeFixedPrice,
		DiscountBadgePromotion,
		DiscountBadgeLaunch,
		DiscountBadgeQuantity,
		DiscountBadgeBundle,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d badges, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s got %s", i, want[i], got[i])
		}
	}

	got[0] = DiscountBadgeBundle
	if DiscountBadgePrecedence()[0] != DiscountBadgeFixedPrice {
		t.Fatalf("precedence slice must be a copy")
	}
}

func TestParseDiscountBadge(t *testing.T) {
	if b, err := ParseDiscountBadge("launch"); err != nil || b != DiscountBadgeLaunch {
		t.Fatalf("expected launch, got %q err=%v", b, err)
	}
	if _, err := ParseDiscountBadge("coupon"); err == nil {
		t.Fatalf("expected error for unknown badge")
	}
	if DiscountBadge("coupon").IsValid() {
		t.Fatalf("coupon should not be valid")
	}
}

func TestPricingOperationIsBatch(t *testing.T) {
	if !PricingOperationApplyAll.IsBatch() || PricingOperationApply.IsBatch() {
		t.Fatalf("unexpected batch classification")
	}
	if _, err := ParsePricingOperation("nope"); err == nil {
		t.Fatalf("expected parse error")
	}
}
