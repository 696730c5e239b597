package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

// QRCallbackPayload is the gateway's settlement notification, verbatim. The
// order id travels in AdditionalData.
type QRCallbackPayload struct {
	QRID                string          `json:"QRId" validate:"required"`
	Gloss               string          `json:"Gloss"`
	SourceBankID        string          `json:"sourceBankId"`
	OriginName          string          `json:"originName"`
	VoucherID           string          `json:"VoucherId"`
	TransactionDateTime string          `json:"TransactionDateTime"`
	AdditionalData      string          `json:"additionalData" validate:"required"`
	Amount              decimal.Decimal `json:"amount"`
	CurrencyID          string          `json:"currencyId"`
}

// Service turns gateway callbacks into order confirmations.
type Service interface {
	HandleQRCallback(ctx context.Context, payload QRCallbackPayload) (*models.Order, error)
}

type service struct {
	orders orders.Service
	log    *logger.Logger
}

// NewService wires the callback intake.
func NewService(ordersSvc orders.Service, log *logger.Logger) (Service, error) {
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{orders: ordersSvc, log: log}, nil
}

// HandleQRCallback resolves the order referenced by the payload and applies
// the QR confirmation. A replayed callback finds the order already confirmed
// and is rejected.
func (s *service) HandleQRCallback(ctx context.Context, payload QRCallbackPayload) (*models.Order, error) {
	orderID, err := uuid.Parse(payload.AdditionalData)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "additionalData must carry the order id")
	}
	if payload.QRID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "QRId is required")
	}

	transactionTime := time.Now().UTC()
	if payload.TransactionDateTime != "" {
		parsed, err := parseGatewayTime(payload.TransactionDateTime)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid TransactionDateTime").
				WithDetails(map[string]any{"value": payload.TransactionDateTime})
		}
		transactionTime = parsed
	}

	ctx = s.log.WithOrderID(ctx, orderID.String())
	order, err := s.orders.ConfirmQR(ctx, orders.QRConfirmationInput{
		OrderID:             orderID,
		QRID:                payload.QRID,
		Gloss:               payload.Gloss,
		SourceBankID:        payload.SourceBankID,
		OriginName:          payload.OriginName,
		VoucherID:           payload.VoucherID,
		TransactionDateTime: transactionTime,
		Amount:              payload.Amount,
		CurrencyID:          payload.CurrencyID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "qr settlement applied")
	return order, nil
}

// parseGatewayTime accepts the handful of formats the gateway has been seen
// to emit.
func parseGatewayTime(value string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"02/01/2006 15:04:05",
	}
	for _, format := range formats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
