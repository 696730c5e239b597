package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

func setupStockTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  available INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  order_id TEXT,
  created_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stock_reservations (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  order_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL,
  expires_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_reservation_order_variant UNIQUE (order_id, variant_id)
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, onHand int) uuid.UUID {
	t.Helper()

	variantID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO variants (id, product_id, stock, available) VALUES (?, ?, ?, ?)`,
		variantID, uuid.New(), onHand, onHand > 0,
	).Error)
	if onHand != 0 {
		require.NoError(t, db.Create(&models.LedgerEntry{
			ID:        uuid.New(),
			VariantID: variantID,
			Quantity:  onHand,
		}).Error)
	}
	return variantID
}

func newStockService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), 10*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestAvailable_SubtractsPendingHolds(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 10)
	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: uuid.New(), VariantID: variantID,
		Quantity: 3, Status: enums.ReservationStatusPending, ExpiresAt: &future,
	}).Error)
	// Expired pending hold no longer counts.
	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: uuid.New(), VariantID: variantID,
		Quantity: 4, Status: enums.ReservationStatusPending, ExpiresAt: &past,
	}).Error)
	// Paid hold already moved stock through the ledger.
	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: uuid.New(), VariantID: variantID,
		Quantity: 2, Status: enums.ReservationStatusPaid, ExpiresAt: &future,
	}).Error)

	available, err := svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 7, available)
}

func TestAvailable_IgnoresVoidedLedgerEntries(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 5)
	orderID := uuid.New()
	require.NoError(t, db.Create(&models.LedgerEntry{
		ID: uuid.New(), VariantID: variantID, Quantity: -5, OrderID: &orderID,
	}).Error)
	require.NoError(t, db.Where("order_id = ?", orderID).Delete(&models.LedgerEntry{}).Error)

	available, err := svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 5, available)
}

func TestReserve_HappyPath(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 5)
	orderID := uuid.New()

	var reservation *models.StockReservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var terr error
		reservation, terr = svc.Reserve(ctx, tx, ReserveInput{
			OrderID: orderID, VariantID: variantID, Quantity: 3,
		})
		return terr
	})
	require.NoError(t, err)
	require.Equal(t, enums.ReservationStatusPending, reservation.Status)
	require.NotNil(t, reservation.ExpiresAt)
	require.True(t, reservation.ExpiresAt.After(time.Now()))

	available, err := svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 2, available)
}

func TestReserve_InsufficientStock(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 2)

	_, err := svc.Reserve(ctx, db, ReserveInput{
		OrderID: uuid.New(), VariantID: variantID, Quantity: 3,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
}

func TestReserve_LastUnit(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 1)

	_, err := svc.Reserve(ctx, db, ReserveInput{
		OrderID: uuid.New(), VariantID: variantID, Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, db, ReserveInput{
		OrderID: uuid.New(), VariantID: variantID, Quantity: 1,
	})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
}

func TestReserve_DuplicateVariantForOrder(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 10)
	orderID := uuid.New()

	_, err := svc.Reserve(ctx, db, ReserveInput{OrderID: orderID, VariantID: variantID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, db, ReserveInput{OrderID: orderID, VariantID: variantID, Quantity: 1})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestReserve_UnknownVariant(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)

	_, err := svc.Reserve(context.Background(), db, ReserveInput{
		OrderID: uuid.New(), VariantID: uuid.New(), Quantity: 1,
	})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestMarkPaidByOrder_OnlyMovesPending(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantA := seedVariant(t, db, 5)
	variantB := seedVariant(t, db, 5)
	orderID := uuid.New()
	future := time.Now().UTC().Add(time.Hour)

	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: orderID, VariantID: variantA,
		Quantity: 2, Status: enums.ReservationStatusPending, ExpiresAt: &future,
	}).Error)
	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: orderID, VariantID: variantB,
		Quantity: 1, Status: enums.ReservationStatusExpired, ExpiresAt: &future,
	}).Error)

	moved, err := svc.MarkPaidByOrder(ctx, db, orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1, moved)

	var statuses []string
	require.NoError(t, db.Model(&models.StockReservation{}).
		Where("order_id = ?", orderID).
		Order("status ASC").
		Pluck("status", &statuses).Error)
	require.Equal(t, []string{"expired", "paid"}, statuses)
}

func TestMarkPaidByOrder_SkipsExpiredHolds(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 5)
	orderID := uuid.New()
	past := time.Now().UTC().Add(-time.Minute)

	// The sweep has not run yet, but the database already considers the hold
	// dead. Confirming it must move nothing.
	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: orderID, VariantID: variantID,
		Quantity: 2, Status: enums.ReservationStatusPending, ExpiresAt: &past,
	}).Error)

	moved, err := svc.MarkPaidByOrder(ctx, db, orderID)
	require.NoError(t, err)
	require.Zero(t, moved)

	var reservation models.StockReservation
	require.NoError(t, db.First(&reservation, "order_id = ?", orderID).Error)
	require.Equal(t, enums.ReservationStatusPending, reservation.Status)
}

func TestCancelByOrder_ReleasesAvailability(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 4)
	orderID := uuid.New()

	_, err := svc.Reserve(ctx, db, ReserveInput{OrderID: orderID, VariantID: variantID, Quantity: 4})
	require.NoError(t, err)

	available, err := svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 0, available)

	released, err := svc.CancelByOrder(ctx, db, orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1, released)

	available, err = svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 4, available)
}

func TestExpireDue_Idempotent(t *testing.T) {
	t.Parallel()

	db := setupStockTestDB(t)
	svc := newStockService(t, db)
	ctx := context.Background()

	variantID := seedVariant(t, db, 10)
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: uuid.New(), VariantID: variantID,
		Quantity: 2, Status: enums.ReservationStatusPending, ExpiresAt: &past,
	}).Error)
	require.NoError(t, db.Create(&models.StockReservation{
		ID: uuid.New(), OrderID: uuid.New(), VariantID: variantID,
		Quantity: 3, Status: enums.ReservationStatusPending, ExpiresAt: &future,
	}).Error)

	expired, err := svc.ExpireDue(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, expired)

	expired, err = svc.ExpireDue(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, expired)

	available, err := svc.Available(ctx, variantID)
	require.NoError(t, err)
	require.Equal(t, 7, available)
}
