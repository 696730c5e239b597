package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/db"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

// Service is the reservation engine. A reservation is a time-boxed hold that
// reduces availability without touching the ledger; only order confirmation
// turns a hold into ledger movement.
type Service interface {
	Available(ctx context.Context, variantID uuid.UUID) (int, error)
	Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) (*models.StockReservation, error)
	MarkPaidByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
	CancelByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
	ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockReservation, error)
}

// ReserveInput describes one hold request. ExpiresAt overrides the default
// TTL when set; orders propagate their own deadline so every hold under an
// order dies at the same instant.
type ReserveInput struct {
	OrderID   uuid.UUID
	VariantID uuid.UUID
	Quantity  int
	ExpiresAt *time.Time
}

type service struct {
	repo Repository
	ttl  time.Duration
}

// NewService wires the reservation engine. ttl is the default hold lifetime.
func NewService(repo Repository, ttl time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("reservation ttl must be positive")
	}
	return &service{repo: repo, ttl: ttl}, nil
}

// Available is the non-locking read used by catalog pages and pricing
// fast-fails. It may be stale the moment it returns.
func (s *service) Available(ctx context.Context, variantID uuid.UUID) (int, error) {
	if variantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	available, err := s.repo.AvailableQuantity(ctx, variantID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute availability")
	}
	return available, nil
}

// Reserve places a hold inside the caller's transaction. The variant row is
// locked first so the availability check and the insert are atomic with
// respect to competing reservations.
func (s *service) Reserve(ctx context.Context, tx *gorm.DB, input ReserveInput) (*models.StockReservation, error) {
	if input.OrderID == uuid.Nil || input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and variant id are required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)

	if err := repo.LockVariant(ctx, input.VariantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
				WithDetails(map[string]any{"variantId": input.VariantID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock variant")
	}

	available, err := repo.AvailableQuantity(ctx, input.VariantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute availability")
	}
	if available < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
			WithDetails(map[string]any{
				"variantId": input.VariantID,
				"requested": input.Quantity,
				"available": available,
			})
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		now, err := repo.Now(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read database clock")
		}
		deadline := now.Add(s.ttl)
		expiresAt = &deadline
	}

	reservation := &models.StockReservation{
		OrderID:   input.OrderID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
		Status:    enums.ReservationStatusPending,
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(ctx, reservation); err != nil {
		if db.IsUniqueViolation(err, "idx_reservation_order_variant") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant already reserved for this order").
				WithDetails(map[string]any{"variantId": input.VariantID, "orderId": input.OrderID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}
	return reservation, nil
}

// MarkPaidByOrder moves every pending hold under the order to paid. The
// caller appends the matching negative ledger entries in the same
// transaction; a paid hold no longer counts against availability.
func (s *service) MarkPaidByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	return s.transition(ctx, tx, orderID, enums.ReservationStatusPaid)
}

// CancelByOrder releases every pending hold under the order. Holds already
// expired or paid are left alone.
func (s *service) CancelByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	return s.transition(ctx, tx, orderID, enums.ReservationStatusCancelled)
}

func (s *service) transition(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, to enums.ReservationStatus) (int64, error) {
	if orderID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	moved, err := s.repo.WithTx(tx).UpdateStatusByOrder(ctx, orderID, enums.ReservationStatusPending, to)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition reservations")
	}
	return moved, nil
}

// ExpireDue is the sweep behind the cron job. It is set based and idempotent;
// holds created after the statement ran simply wait for the next pass.
func (s *service) ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error) {
	expired, err := s.repo.WithTx(tx).ExpireDue(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire reservations")
	}
	return expired, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.StockReservation, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	reservations, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return reservations, nil
}
