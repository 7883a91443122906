package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityDiscount captures a quantity tier scoped to a product or a product family prefix.
type QuantityDiscount struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID     *string             `gorm:"column:sku_id;index"`
	ProductFamily *string             `gorm:"column:product_family"`
	MinQty        int                 `gorm:"column:min_qty;not null;default:1"`
	MaxQty        *int                `gorm:"column:max_qty"`
	DiscountPct   decimal.NullDecimal `gorm:"column:discount_pct;type:numeric(7,4)"`
	FlatPrice     decimal.NullDecimal `gorm:"column:flat_price;type:numeric(14,4)"`
	Description   string              `gorm:"column:description;not null;default:''"`
	Position      int                 `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (QuantityDiscount) TableName() string { return "quantity_discounts" }
