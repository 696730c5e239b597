package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

type stubOrders struct {
	orders.Service
	confirmQRFn func(ctx context.Context, input orders.QRConfirmationInput) (*models.Order, error)
}

func (s *stubOrders) ConfirmQR(ctx context.Context, input orders.QRConfirmationInput) (*models.Order, error) {
	return s.confirmQRFn(ctx, input)
}

func newPaymentsService(t *testing.T, stub *stubOrders) Service {
	t.Helper()
	svc, err := NewService(stub, logger.New(logger.Options{ServiceName: "payments-test"}))
	require.NoError(t, err)
	return svc
}

func TestHandleQRCallback_DelegatesToOrders(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	var got orders.QRConfirmationInput
	stub := &stubOrders{confirmQRFn: func(ctx context.Context, input orders.QRConfirmationInput) (*models.Order, error) {
		got = input
		return &models.Order{ID: input.OrderID, Status: enums.OrderStatusPaid}, nil
	}}
	svc := newPaymentsService(t, stub)

	order, err := svc.HandleQRCallback(context.Background(), QRCallbackPayload{
		QRID:                "qr-1",
		Gloss:               "pago",
		SourceBankID:        "1016",
		OriginName:          "Maria",
		VoucherID:           "v-1",
		TransactionDateTime: "2026-08-29 10:15:00",
		AdditionalData:      orderID.String(),
		Amount:              decimal.RequireFromString("65.00"),
		CurrencyID:          "BOB",
	})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPaid, order.Status)
	require.Equal(t, orderID, got.OrderID)
	require.Equal(t, "qr-1", got.QRID)
	require.Equal(t, time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC), got.TransactionDateTime)
	require.True(t, got.Amount.Equal(decimal.RequireFromString("65.00")))
}

func TestHandleQRCallback_RejectsBadOrderReference(t *testing.T) {
	t.Parallel()

	svc := newPaymentsService(t, &stubOrders{})

	_, err := svc.HandleQRCallback(context.Background(), QRCallbackPayload{
		QRID:           "qr-1",
		AdditionalData: "not-a-uuid",
	})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestHandleQRCallback_RejectsBadTimestamp(t *testing.T) {
	t.Parallel()

	svc := newPaymentsService(t, &stubOrders{})

	_, err := svc.HandleQRCallback(context.Background(), QRCallbackPayload{
		QRID:                "qr-1",
		AdditionalData:      uuid.NewString(),
		TransactionDateTime: "yesterday",
	})
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
