package discounts

import (
	"context"
	"time"

	"github.com/angelmondragon/leadquote-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository loads discount sources from the database.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListPromotions(ctx context.Context) ([]Promotion, error) {
	var rows []models.Promotion
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Promotion, 0, len(rows))
	for _, row := range rows {
		out = append(out, Promotion{
			ProductID:   row.ProductID,
			PromoPrice:  row.PromoPrice,
			DiscountPct: row.DiscountPct,
		})
	}
	return out, nil
}

// ListQuantityDiscounts returns tiers in declaration order (position, then id).
func (r *Repository) ListQuantityDiscounts(ctx context.Context) ([]QuantityDiscount, error) {
	var rows []models.QuantityDiscount
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]QuantityDiscount, 0, len(rows))
	for _, row := range rows {
		out = append(out, QuantityDiscount{
			Scope:       scopeFromColumns(row.ProductID, row.ProductFamily),
			MinQty:      row.MinQty,
			MaxQty:      row.MaxQty,
			DiscountPct: row.DiscountPct,
			FlatPrice:   row.FlatPrice,
			Description: row.Description,
		})
	}
	return out, nil
}

func (r *Repository) ListLaunches(ctx context.Context) ([]Launch, error) {
	var rows []models.LaunchProduct
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Launch, 0, len(rows))
	for _, row := range rows {
		out = append(out, Launch{
			ProductID:    row.ProductID,
			LaunchPrice:  row.LaunchPrice,
			RegularPrice: row.RegularPrice,
			StartsAt:     row.LaunchStart.UTC(),
			EndsAt:       row.LaunchEnd.UTC(),
			Active:       row.IsActive,
		})
	}
	return out, nil
}

func (r *Repository) ListFixedPrices(ctx context.Context, customerID string) ([]FixedPrice, error) {
	var rows []models.CustomerFixedPrice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]FixedPrice, 0, len(rows))
	for _, row := range rows {
		var validUntil *time.Time
		if row.ValidUntil != nil {
			v := row.ValidUntil.UTC()
			validUntil = &v
		}
		out = append(out, FixedPrice{
			ProductID:         row.ProductID,
			Price:             row.Price,
			ValidUntil:        validUntil,
			OriginalListPrice: row.OriginalListPrice,
			DiscountPct:       row.DiscountPct,
		})
	}
	return out, nil
}

// ListBundles returns bundles in declaration order (position, then id).
func (r *Repository) ListBundles(ctx context.Context) ([]Bundle, error) {
	var rows []models.Bundle
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Bundle, 0, len(rows))
	for _, row := range rows {
		out = append(out, Bundle{
			Scope:       scopeFromColumns(row.ProductID, row.ProductFamily),
			BundleID:    row.BundleID,
			DiscountPct: row.DiscountPct,
			MinQuantity: row.MinQuantity,
		})
	}
	return out, nil
}

func scopeFromColumns(productID, family *string) Scope {
	if productID != nil && *productID != "" {
		return ProductScope(*productID)
	}
	if family != nil {
		return FamilyScope(*family)
	}
	return Scope{}
}
