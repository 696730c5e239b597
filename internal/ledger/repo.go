package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
)

// Repository manages persistence for ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.LedgerEntry) error
	SumByVariant(ctx context.Context, variantID uuid.UUID) (int, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error)
	SoftDeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	RefreshVariantCache(ctx context.Context, variantID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) SumByVariant(ctx context.Context, variantID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("variant_id = ?", variantID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SoftDeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.LedgerEntry{})
	return res.RowsAffected, res.Error
}

// RefreshVariantCache rewrites the denormalized stock/available columns from
// the live ledger balance. The cache is never consulted for correctness.
func (r *repository) RefreshVariantCache(ctx context.Context, variantID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE variants
		SET stock = balance.total,
			available = balance.total > 0,
			updated_at = CURRENT_TIMESTAMP
		FROM (
			SELECT COALESCE(SUM(quantity), 0) AS total
			FROM ledger_entries
			WHERE variant_id = ? AND deleted_at IS NULL
		) AS balance
		WHERE variants.id = ?
	`, variantID, variantID).Error
}
