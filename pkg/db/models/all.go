package models

// DiscountSourceModels lists the tables backing the discount sources, in migration order.
func DiscountSourceModels() []any {
	return []any{
		&Promotion{},
		&QuantityDiscount{},
		&LaunchProduct{},
		&CustomerFixedPrice{},
		&Bundle{},
	}
}
