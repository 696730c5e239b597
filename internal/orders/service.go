package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/internal/ledger"
	"github.com/lromero-dev/altiplano-backend/internal/pricing"
	"github.com/lromero-dev/altiplano-backend/internal/stock"
	"github.com/lromero-dev/altiplano-backend/pkg/config"
	"github.com/lromero-dev/altiplano-backend/pkg/db"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
	"github.com/lromero-dev/altiplano-backend/pkg/mailer"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the order state machine. Every mutating operation runs inside
// one transaction with the order row locked for write, so racing confirm and
// cancel calls serialize; the loser observes a row that no longer matches its
// precondition.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ConfirmManual(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ConfirmQR(ctx context.Context, input QRConfirmationInput) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Edit(ctx context.Context, input EditOrderInput) (*models.Order, error)
	ChangeStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	stock   stock.Service
	ledger  ledger.Service
	pricing pricing.Service
	mail    mailer.Mailer
	log     *logger.Logger

	reservationTTL    time.Duration
	nationalShipping  decimal.Decimal
	internationalShip decimal.Decimal
}

// NewService builds the order lifecycle manager with its collaborators.
func NewService(
	repo Repository,
	tx txRunner,
	stockSvc stock.Service,
	ledgerSvc ledger.Service,
	pricingSvc pricing.Service,
	mail mailer.Mailer,
	log *logger.Logger,
	reservationCfg config.ReservationConfig,
	shippingCfg config.ShippingConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stockSvc == nil {
		return nil, fmt.Errorf("stock service required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if pricingSvc == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	national, err := decimal.NewFromString(shippingCfg.NationalPrice)
	if err != nil {
		return nil, fmt.Errorf("parsing national shipping price: %w", err)
	}
	international, err := decimal.NewFromString(shippingCfg.InternationalPrice)
	if err != nil {
		return nil, fmt.Errorf("parsing international shipping price: %w", err)
	}
	return &service{
		repo:              repo,
		tx:                tx,
		stock:             stockSvc,
		ledger:            ledgerSvc,
		pricing:           pricingSvc,
		mail:              mail,
		log:               log,
		reservationTTL:    reservationCfg.TTL(),
		nationalShipping:  national,
		internationalShip: international,
	}, nil
}

// Create opens one transaction that inserts the order and its items and
// places one stock hold per line. Any failing line rolls the whole thing
// back; a partial order is never visible.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	claims, err := s.validateCreate(input)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err = s.createInTx(ctx, tx, input, claims, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) validateCreate(input CreateOrderInput) (*pricing.CartTokenClaims, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	switch input.Type {
	case enums.OrderTypeInStore:
		if input.CustomerID != nil || input.Shipment != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "in-store orders cannot carry customer or shipment")
		}
	case enums.OrderTypeOnline:
		if input.CustomerID == nil || input.Shipment == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "online orders require customer and shipment")
		}
		if !input.Shipment.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipment kind")
		}
	}

	claims, err := s.pricing.ParseToken(input.CartToken)
	if err != nil {
		return nil, err
	}
	if len(claims.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token has no lines")
	}
	return claims, nil
}

// createInTx holds the shared creation path used by Create and Edit. When
// confirmed is true the order is born in its post-confirmation state, which
// is how edit replacements come into the world.
func (s *service) createInTx(ctx context.Context, tx *gorm.DB, input CreateOrderInput, claims *pricing.CartTokenClaims, confirmed bool) (*models.Order, error) {
	repo := s.repo.WithTx(tx)
	total := claims.TotalPrice

	var customerID, shipmentID *uuid.UUID
	var customer *models.Customer
	if input.Type == enums.OrderTypeOnline && input.CustomerID != nil && input.Shipment != nil {
		var err error
		customer, err = repo.FindCustomer(ctx, *input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		customerID = &customer.ID

		shipment := &models.Shipment{
			ID:          uuid.New(),
			Kind:        input.Shipment.Kind,
			Price:       s.shippingPrice(input.Shipment.Kind),
			AddressLine: input.Shipment.AddressLine,
			City:        input.Shipment.City,
			Country:     input.Shipment.Country,
		}
		if err := repo.CreateShipment(ctx, shipment); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
		}
		shipmentID = &shipment.ID
		total = total.Add(shipment.Price).Round(2)
	}

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read database clock")
	}
	expiresAt := now.Add(s.reservationTTL)
	order := &models.Order{
		ID:            uuid.New(),
		Type:          input.Type,
		Status:        enums.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		TotalPrice:    total,
		ExpiresAt:     &expiresAt,
		CustomerID:    customerID,
		ShipmentID:    shipmentID,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	items := make([]models.OrderItem, 0, len(claims.Lines))
	for _, line := range claims.Lines {
		reservation, err := s.stock.Reserve(ctx, tx, stock.ReserveInput{
			OrderID:   order.ID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			ExpiresAt: &expiresAt,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			OrderID:       order.ID,
			VariantID:     line.VariantID,
			ReservationID: reservation.ID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountValue: line.DiscountValue,
			Total:         line.Total,
		})
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}
	order.Items = items
	order.Customer = customer

	if confirmed {
		if err := s.confirmInTx(ctx, tx, order, enums.OrderStatusSent); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *service) shippingPrice(kind enums.ShipmentKind) decimal.Decimal {
	if kind == enums.ShipmentKindInternational {
		return s.internationalShip
	}
	return s.nationalShipping
}

// ConfirmManual turns an in-store pending order into a sale paid over the
// counter. This is the moment demand becomes permanent: holds flip to paid
// and the negative ledger entries are written.
func (s *service) ConfirmManual(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = s.lockPendingOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Type != enums.OrderTypeInStore {
			return pkgerrors.New(pkgerrors.CodePreconditionFailed, "order cannot be confirmed manually")
		}
		if !order.PaymentMethod.IsManual() {
			return pkgerrors.New(pkgerrors.CodePreconditionFailed, "order payment method requires the gateway callback")
		}
		return s.confirmInTx(ctx, tx, order, enums.OrderStatusSent)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmQR applies the gateway settlement to a pending QR order. In-store
// orders move to sent, online ones straight to paid; online customers get a
// notification once the transaction has committed.
func (s *service) ConfirmQR(ctx context.Context, input QRConfirmationInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.QRID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qr id is required")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		order, err = s.lockPendingOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.PaymentMethod != enums.PaymentMethodQR {
			return pkgerrors.New(pkgerrors.CodePreconditionFailed, "order is not payable by qr")
		}

		target := enums.OrderStatusSent
		if order.Type == enums.OrderTypeOnline {
			target = enums.OrderStatusPaid
		}
		if err := s.confirmInTx(ctx, tx, order, target); err != nil {
			return err
		}

		payment := &models.Payment{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			QRID:                input.QRID,
			Gloss:               input.Gloss,
			SourceBankID:        input.SourceBankID,
			OriginName:          input.OriginName,
			VoucherID:           input.VoucherID,
			TransactionDateTime: input.TransactionDateTime,
			Amount:              input.Amount,
			CurrencyID:          input.CurrencyID,
		}
		if err := repo.CreatePayment(ctx, payment); err != nil {
			if db.IsUniqueViolation(err, "idx_payments_order") {
				return pkgerrors.New(pkgerrors.CodeConflict, "payment already recorded for order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		order.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if order.Type == enums.OrderTypeOnline {
		s.notifyPaid(ctx, order)
	}
	return order, nil
}

// lockPendingOrder loads the order for write restricted to pending state.
// A missing or non-pending row is reported as not found so callers never
// learn the actual status; an expired-but-unswept pending row fails the
// expiry precondition instead.
func (s *service) lockPendingOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrderForUpdate(ctx, orderID, []enums.OrderStatus{enums.OrderStatusPending})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.ensureNotExpired(ctx, repo, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ensureNotExpired guards reservation-sensitive transitions. The deadline is
// compared against the database server's clock so the check agrees with
// availability, which the database also judges.
func (s *service) ensureNotExpired(ctx context.Context, repo Repository, order *models.Order) error {
	now, err := repo.Now(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read database clock")
	}
	if order.ExpiresAt == nil || !order.ExpiresAt.After(now) {
		return pkgerrors.New(pkgerrors.CodePreconditionFailed, "order has expired")
	}
	return nil
}

// confirmInTx applies the shared confirmation effects: holds to paid, one
// negative ledger entry per item, expiry cleared, status advanced.
func (s *service) confirmInTx(ctx context.Context, tx *gorm.DB, order *models.Order, target enums.OrderStatus) error {
	repo := s.repo.WithTx(tx)

	items := order.Items
	if len(items) == 0 {
		var err error
		items, err = repo.FindItemsByOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
	}

	// The paid flip only matches holds still inside their deadline. Anything
	// short of one flipped hold per item means the database already considers
	// part of the order expired, and the stock may be reserved elsewhere.
	moved, err := s.stock.MarkPaidByOrder(ctx, tx, order.ID)
	if err != nil {
		return err
	}
	if moved != int64(len(items)) {
		return pkgerrors.New(pkgerrors.CodePreconditionFailed, "order has expired")
	}
	for _, item := range items {
		if _, err := s.ledger.Append(ctx, tx, ledger.AppendEntryInput{
			VariantID: item.VariantID,
			Quantity:  -item.Quantity,
			OrderID:   &order.ID,
		}); err != nil {
			return err
		}
	}

	if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
		"status":     target,
		"expires_at": nil,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target
	order.ExpiresAt = nil
	order.Items = items

	for _, item := range items {
		s.ledger.RefreshVariantCache(ctx, tx, item.VariantID)
	}
	return nil
}

// Cancel retires an order from any live state. Pending orders simply release
// their holds; confirmed ones additionally get their negative ledger entries
// voided so availability is restored. The lookup excludes terminal states,
// so cancelling twice reports not found.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderForUpdate(ctx, orderID, []enums.OrderStatus{
			enums.OrderStatusPending,
			enums.OrderStatusSent,
			enums.OrderStatusPaid,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		wasPending := order.Status == enums.OrderStatusPending
		if wasPending {
			if err := s.ensureNotExpired(ctx, repo, order); err != nil {
				return err
			}
		}

		return s.cancelInTx(ctx, tx, order, enums.OrderStatusCancelled, wasPending)
	})
}

// cancelInTx applies the shared cancellation effects and moves the order to
// the given retirement state.
func (s *service) cancelInTx(ctx context.Context, tx *gorm.DB, order *models.Order, target enums.OrderStatus, softDelete bool) error {
	repo := s.repo.WithTx(tx)

	if _, err := s.stock.CancelByOrder(ctx, tx, order.ID); err != nil {
		return err
	}
	if _, err := s.ledger.VoidByOrder(ctx, tx, order.ID); err != nil {
		return err
	}

	updates := map[string]any{"status": target}
	if softDelete {
		updates["deleted_at"] = time.Now().UTC()
	}
	if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = target

	items, err := repo.FindItemsByOrder(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	for _, item := range items {
		s.ledger.RefreshVariantCache(ctx, tx, item.VariantID)
	}
	return nil
}

// Edit replaces an order's cart wholesale. The original is retired through
// cancelled-for-edit and the replacement, paid in cash, is created and
// confirmed in the same transaction, so it is born sent and no availability
// is double counted at any point.
func (s *service) Edit(ctx context.Context, input EditOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	claims, err := s.pricing.ParseToken(input.CartToken)
	if err != nil {
		return nil, err
	}
	if len(claims.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token has no lines")
	}

	var replacement *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		original, err := repo.FindOrderForUpdate(ctx, input.OrderID, []enums.OrderStatus{
			enums.OrderStatusPending,
			enums.OrderStatusSent,
			enums.OrderStatusPaid,
			enums.OrderStatusCancelledForEdit,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if original.Status != enums.OrderStatusCancelledForEdit {
			if original.Status == enums.OrderStatusPending {
				if err := s.ensureNotExpired(ctx, repo, original); err != nil {
					return err
				}
			}
			if err := s.cancelInTx(ctx, tx, original, enums.OrderStatusCancelledForEdit, false); err != nil {
				return err
			}
		}

		createInput := CreateOrderInput{
			Type:          original.Type,
			PaymentMethod: enums.PaymentMethodCash,
			CustomerID:    original.CustomerID,
		}
		if original.Type == enums.OrderTypeOnline && original.ShipmentID != nil {
			// Reuse the original shipment row instead of creating a new leg.
			shipment, err := repo.FindShipment(ctx, *original.ShipmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment")
			}
			replacement, err = s.createReplacementWithShipment(ctx, tx, original, claims, shipment)
			if err != nil {
				return err
			}
		} else {
			replacement, err = s.createInTx(ctx, tx, createInput, claims, true)
			if err != nil {
				return err
			}
		}

		if err := repo.UpdateOrder(ctx, replacement.ID, map[string]any{"edited": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag edited order")
		}
		replacement.Edited = true

		if err := repo.UpdateOrder(ctx, original.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire original order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replacement, nil
}

// createReplacementWithShipment mirrors createInTx for online edits, reusing
// the original shipment row and its frozen price.
func (s *service) createReplacementWithShipment(ctx context.Context, tx *gorm.DB, original *models.Order, claims *pricing.CartTokenClaims, shipment *models.Shipment) (*models.Order, error) {
	repo := s.repo.WithTx(tx)

	now, err := repo.Now(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read database clock")
	}
	expiresAt := now.Add(s.reservationTTL)
	order := &models.Order{
		ID:            uuid.New(),
		Type:          original.Type,
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCash,
		TotalPrice:    claims.TotalPrice.Add(shipment.Price).Round(2),
		ExpiresAt:     &expiresAt,
		CustomerID:    original.CustomerID,
		ShipmentID:    original.ShipmentID,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	items := make([]models.OrderItem, 0, len(claims.Lines))
	for _, line := range claims.Lines {
		reservation, err := s.stock.Reserve(ctx, tx, stock.ReserveInput{
			OrderID:   order.ID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			ExpiresAt: &expiresAt,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			OrderID:       order.ID,
			VariantID:     line.VariantID,
			ReservationID: reservation.ID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountValue: line.DiscountValue,
			Total:         line.Total,
		})
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}
	order.Items = items

	if err := s.confirmInTx(ctx, tx, order, enums.OrderStatusSent); err != nil {
		return nil, err
	}
	return order, nil
}

// ChangeStatus is the carrier transition endpoint. The upstream semantics
// were never finished, so the operation is wired but refuses every request
// until a concrete transition exists.
func (s *service) ChangeStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return pkgerrors.New(pkgerrors.CodePreconditionFailed, "status transition not supported")
}

// ExpireDue flips timed-out pending orders to expired. Set based and
// idempotent; the reservation sweep runs separately.
func (s *service) ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error) {
	expired, err := s.repo.WithTx(tx).ExpireDue(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire orders")
	}
	return expired, nil
}

// notifyPaid tells the customer their online order is paid. Fire and forget;
// a mail failure never affects the committed order.
func (s *service) notifyPaid(ctx context.Context, order *models.Order) {
	var email string
	if order.Customer != nil {
		email = order.Customer.Email
	} else if order.CustomerID != nil {
		customer, err := s.repo.FindCustomer(ctx, *order.CustomerID)
		if err != nil {
			s.log.Error(ctx, "load customer for paid notification", err)
			return
		}
		email = customer.Email
	}
	if email == "" {
		return
	}

	orderID := order.ID
	go func() {
		ctx := s.log.WithOrderID(context.Background(), orderID.String())
		subject := "Your order has been paid"
		body := fmt.Sprintf("Order %s was confirmed and is being prepared.", orderID)
		if err := s.mail.Send(ctx, email, subject, body); err != nil {
			s.log.Error(ctx, "send paid notification", err)
		}
	}()
}
