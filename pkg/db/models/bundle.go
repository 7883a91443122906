package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bundle is a bundle discount scoped to a product or a product family prefix.
type Bundle struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BundleID      string          `gorm:"column:bundle_id;not null"`
	ProductID     *string         `gorm:"column:sku_id;index"`
	ProductFamily *string         `gorm:"column:product_family"`
	DiscountPct   decimal.Decimal `gorm:"column:discount_pct;type:numeric(7,4);not null"`
	MinQuantity   int             `gorm:"column:min_quantity;not null;default:1"`
	Position      int             `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Bundle) TableName() string { return "bundles" }
