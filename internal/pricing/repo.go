package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
)

// Repository reads the catalog rows repricing needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariantWithProduct(ctx context.Context, variantID uuid.UUID) (*models.Variant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVariantWithProduct(ctx context.Context, variantID uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Discount").
		First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}
