package enums

import "fmt"

// PricingOperation names the pricing-decision actions exposed to sellers.
type PricingOperation string

const (
	PricingOperationCalculate    PricingOperation = "calculate"
	PricingOperationApply        PricingOperation = "apply"
	PricingOperationCalculateAll PricingOperation = "calculate_all"
	PricingOperationApplyAll     PricingOperation = "apply_all"
)

var validPricingOperations = []PricingOperation{
	PricingOperationCalculate,
	PricingOperationApply,
	PricingOperationCalculateAll,
	PricingOperationApplyAll,
}

// String implements fmt.Stringer.
func (p PricingOperation) String() string {
	return string(p)
}

// IsBatch reports whether the operation walks every cart line.
func (p PricingOperation) IsBatch() bool {
	return p == PricingOperationCalculateAll || p == PricingOperationApplyAll
}

// ParsePricingOperation converts raw input into a PricingOperation.
func ParsePricingOperation(value string) (PricingOperation, error) {
	for _, candidate := range validPricingOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing operation %q", value)
}
