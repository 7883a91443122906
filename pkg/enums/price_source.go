package enums

// PriceSource records which level of a fallback chain supplied a price.
type PriceSource string

const (
	PriceSourceOriginal  PriceSource = "original_price"
	PriceSourceProduct   PriceSource = "product_price"
	PriceSourceNone      PriceSource = "none"
	PriceSourceListPrice PriceSource = "list_price"
)

// String implements fmt.Stringer.
func (p PriceSource) String() string {
	return string(p)
}
