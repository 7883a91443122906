package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LaunchProduct is a time-boxed launch price.
type LaunchProduct struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    string          `gorm:"column:sku_id;not null;index"`
	LaunchPrice  decimal.Decimal `gorm:"column:launch_price;type:numeric(14,4);not null"`
	RegularPrice decimal.Decimal `gorm:"column:regular_price;type:numeric(14,4);not null"`
	LaunchStart  time.Time       `gorm:"column:launch_start;not null"`
	LaunchEnd    time.Time       `gorm:"column:launch_end;not null"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (LaunchProduct) TableName() string { return "launch_products" }
