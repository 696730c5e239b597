package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/internal/stock"
	"github.com/lromero-dev/altiplano-backend/pkg/config"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Service freezes catalog prices into signed cart tokens. Repricing is the
// only place unit prices and discounts are read; everything downstream works
// off the snapshot.
type Service interface {
	Reprice(ctx context.Context, input RepriceInput) (*Snapshot, error)
	ParseToken(tokenString string) (*CartTokenClaims, error)
}

// RepriceInput is the raw cart sent by a client.
type RepriceInput struct {
	Items []RepriceItem
}

// RepriceItem is one requested variant/quantity pair.
type RepriceItem struct {
	VariantID uuid.UUID
	Quantity  int
}

// Snapshot is the result of a repricing pass.
type Snapshot struct {
	Lines      []CartLine
	TotalPrice decimal.Decimal
	Token      string
	ExpiresAt  time.Time
}

type service struct {
	repo  Repository
	stock stock.Service
	cfg   config.CartTokenConfig
	now   func() time.Time
}

// NewService wires the pricing snapshot service.
func NewService(repo Repository, stockSvc stock.Service, cfg config.CartTokenConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("cart token secret required")
	}
	return &service{repo: repo, stock: stockSvc, cfg: cfg, now: time.Now}, nil
}

// Reprice prices every requested line against the current catalog and signs
// the result. The availability check is a non-locking fast fail; the
// authoritative check happens again when the order reserves stock.
func (s *service) Reprice(ctx context.Context, input RepriceInput) (*Snapshot, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	now := s.now().UTC()
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	lines := make([]CartLine, 0, len(input.Items))
	total := decimal.Zero

	for _, item := range input.Items {
		if item.VariantID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"variantId": item.VariantID})
		}
		if _, dup := seen[item.VariantID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant in cart").
				WithDetails(map[string]any{"variantId": item.VariantID})
		}
		seen[item.VariantID] = struct{}{}

		variant, err := s.repo.FindVariantWithProduct(ctx, item.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
					WithDetails(map[string]any{"variantId": item.VariantID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if variant.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "variant has no product").
				WithDetails(map[string]any{"variantId": item.VariantID})
		}

		available, err := s.stock.Available(ctx, item.VariantID)
		if err != nil {
			return nil, err
		}
		if available < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock available").
				WithDetails(map[string]any{
					"variantId": item.VariantID,
					"requested": item.Quantity,
					"available": available,
				})
		}

		line := priceLine(variant.Product.UnitPrice, variant.Product.Discount.PercentageAt(now), item)
		lines = append(lines, line)
		total = total.Add(line.Total)
	}

	token, err := MintCartToken(s.cfg, now, lines, total)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint cart token")
	}

	return &Snapshot{
		Lines:      lines,
		TotalPrice: total,
		Token:      token,
		ExpiresAt:  now.Add(s.cfg.TTL()),
	}, nil
}

// ParseToken validates a previously issued cart token.
func (s *service) ParseToken(tokenString string) (*CartTokenClaims, error) {
	claims, err := ParseCartToken(s.cfg, tokenString)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePreconditionFailed, err, "cart token rejected")
	}
	return claims, nil
}

// priceLine applies the percentage discount and rounds to cents. The gross
// amount is computed before rounding so multi-unit lines do not accumulate
// per-unit rounding drift.
func priceLine(unit decimal.Decimal, discountPct decimal.Decimal, item RepriceItem) CartLine {
	qty := decimal.NewFromInt(int64(item.Quantity))
	gross := unit.Mul(qty)
	discountValue := gross.Mul(discountPct).Div(oneHundred).Round(2)
	total := gross.Sub(gross.Mul(discountPct).Div(oneHundred)).Round(2)

	return CartLine{
		VariantID:     item.VariantID,
		Quantity:      item.Quantity,
		UnitPrice:     unit,
		DiscountValue: discountValue,
		Total:         total,
	}
}
