package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lromero-dev/altiplano-backend/pkg/db"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
)

// Repository manages persistence for stock reservations and the derived
// availability figure.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Now(ctx context.Context) (time.Time, error)
	Create(ctx context.Context, reservation *models.StockReservation) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockReservation, error)
	LockVariant(ctx context.Context, variantID uuid.UUID) error
	AvailableQuantity(ctx context.Context, variantID uuid.UUID) (int, error)
	UpdateStatusByOrder(ctx context.Context, orderID uuid.UUID, from, to enums.ReservationStatus) (int64, error)
	ExpireDue(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(database *gorm.DB) Repository {
	return &repository{db: database}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Now reads the database server's clock, the only clock expiry is judged by.
func (r *repository) Now(ctx context.Context) (time.Time, error) {
	return db.CurrentTimestamp(ctx, r.db)
}

func (r *repository) Create(ctx context.Context, reservation *models.StockReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockReservation, error) {
	var reservations []models.StockReservation
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// LockVariant takes a row lock on the variant, serializing concurrent
// reservations for the same SKU. Only postgres supports FOR UPDATE; the
// sqlite test database is single-writer so the lock is skipped there.
func (r *repository) LockVariant(ctx context.Context, variantID uuid.UUID) error {
	query := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", variantID)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var locked models.Variant
	if err := query.First(&locked).Error; err != nil {
		return err
	}
	return nil
}

// AvailableQuantity computes ledger balance minus pending unexpired holds in a
// single statement so both readings come from the same snapshot. Paid holds
// are excluded; their stock impact already lives in the ledger. The database
// clock decides what counts as expired.
func (r *repository) AvailableQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	var available int
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE((
				SELECT SUM(quantity) FROM ledger_entries
				WHERE variant_id = ? AND deleted_at IS NULL
			), 0)
			-
			COALESCE((
				SELECT SUM(quantity) FROM stock_reservations
				WHERE variant_id = ?
				  AND status = ?
				  AND expires_at > `+db.Now+`
			), 0)
	`, variantID, variantID, enums.ReservationStatusPending).
		Scan(&available).Error
	if err != nil {
		return 0, err
	}
	return available, nil
}

func (r *repository) UpdateStatusByOrder(ctx context.Context, orderID uuid.UUID, from, to enums.ReservationStatus) (int64, error) {
	updates := map[string]any{"status": to}
	if to == enums.ReservationStatusPaid {
		// Paid holds no longer expire.
		updates["expires_at"] = nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.StockReservation{}).
		Where("order_id = ? AND status = ?", orderID, from)
	if from == enums.ReservationStatusPending && to == enums.ReservationStatusPaid {
		// A hold past its deadline must not be confirmed, whether or not
		// the sweep has flipped it yet.
		query = query.Where("expires_at > " + db.Now)
	}
	res := query.Updates(updates)
	return res.RowsAffected, res.Error
}

// ExpireDue flips every overdue pending hold in one statement. Running it
// twice in a row is a no-op by construction.
func (r *repository) ExpireDue(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockReservation{}).
		Where("status = ? AND expires_at <= "+db.Now, enums.ReservationStatusPending).
		Update("status", enums.ReservationStatusExpired)
	return res.RowsAffected, res.Error
}
