package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

// Service defines the append-only stock ledger. The ledger is the source of
// truth for ever-received/ever-sold quantity; it never rejects a quantity
// (signing and limits are the callers' business) and its write path takes no
// locks.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendEntryInput) (*models.LedgerEntry, error)
	Balance(ctx context.Context, variantID uuid.UUID) (int, error)
	VoidByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error)
	RefreshVariantCache(ctx context.Context, tx *gorm.DB, variantID uuid.UUID)
}

// AppendEntryInput captures the immutable data a ledger entry requires.
type AppendEntryInput struct {
	VariantID uuid.UUID
	Quantity  int
	OrderID   *uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendEntryInput) (*models.LedgerEntry, error) {
	if input.VariantID == uuid.Nil {
		return nil, fmt.Errorf("variant id is required")
	}

	entry := &models.LedgerEntry{
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
		OrderID:   input.OrderID,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry")
	}
	return entry, nil
}

func (s *service) Balance(ctx context.Context, variantID uuid.UUID) (int, error) {
	if variantID == uuid.Nil {
		return 0, fmt.Errorf("variant id is required")
	}
	total, err := s.repo.SumByVariant(ctx, variantID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum ledger entries")
	}
	return total, nil
}

// VoidByOrder tombstones every entry tied to the order. Confirmed sales are
// voided rather than counter-posted so the history stays queryable.
func (s *service) VoidByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int64, error) {
	if orderID == uuid.Nil {
		return 0, fmt.Errorf("order id is required")
	}
	voided, err := s.repo.WithTx(tx).SoftDeleteByOrder(ctx, orderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void ledger entries")
	}
	return voided, nil
}

// RefreshVariantCache best-effort rewrites the denormalized variant columns.
// Failures are swallowed; the cache never feeds availability decisions.
func (s *service) RefreshVariantCache(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) {
	if variantID == uuid.Nil {
		return
	}
	_ = s.repo.WithTx(tx).RefreshVariantCache(ctx, variantID)
}
