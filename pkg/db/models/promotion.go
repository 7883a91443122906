package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a storewide promotional price for one product.
type Promotion struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   string          `gorm:"column:sku_id;not null;index"`
	PromoPrice  decimal.Decimal `gorm:"column:promo_price;type:numeric(14,4);not null"`
	DiscountPct decimal.Decimal `gorm:"column:discount_pct;type:numeric(7,4);not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Promotion) TableName() string { return "promotions" }
