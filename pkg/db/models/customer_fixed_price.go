package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerFixedPrice is a negotiated price for one customer and product.
type CustomerFixedPrice struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID        string              `gorm:"column:customer_id;not null;uniqueIndex:customer_fixed_prices_customer_sku"`
	ProductID         string              `gorm:"column:sku_id;not null;uniqueIndex:customer_fixed_prices_customer_sku"`
	Price             decimal.Decimal     `gorm:"column:price;type:numeric(14,4);not null"`
	ValidUntil        *time.Time          `gorm:"column:valid_until"`
	OriginalListPrice decimal.Decimal     `gorm:"column:original_list_price;type:numeric(14,4);not null;default:0"`
	DiscountPct       decimal.NullDecimal `gorm:"column:discount_pct;type:numeric(7,4)"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (CustomerFixedPrice) TableName() string { return "customer_fixed_prices" }
