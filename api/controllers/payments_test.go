package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lromero-dev/altiplano-backend/internal/payments"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

type stubPaymentsService struct {
	handleFn func(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error)
}

func (s *stubPaymentsService) HandleQRCallback(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error) {
	return s.handleFn(ctx, payload)
}

func TestQRCallbackSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentsService{
		handleFn: func(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error) {
			if payload.QRID != "QR-123" {
				t.Fatalf("qr id not forwarded: %s", payload.QRID)
			}
			if payload.AdditionalData != orderID.String() {
				t.Fatalf("order reference not forwarded: %s", payload.AdditionalData)
			}
			return &models.Order{ID: orderID, Status: enums.OrderStatusPaid}, nil
		},
	}

	body := `{"QRId":"QR-123","Gloss":"pago pedido","sourceBankId":"1016","originName":"CLIENTE","VoucherId":"V-9","TransactionDateTime":"2026-08-29 10:15:00","additionalData":"` + orderID.String() + `","amount":"115.00","currencyId":"BOB"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/qr/callback", strings.NewReader(body))
	resp := httptest.NewRecorder()
	QRCallback(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["order_id"] != orderID.String() {
		t.Fatalf("unexpected order id %s", envelope.Data["order_id"])
	}
	if envelope.Data["status"] != string(enums.OrderStatusPaid) {
		t.Fatalf("unexpected status %s", envelope.Data["status"])
	}
}

func TestQRCallbackRequiresQRID(t *testing.T) {
	svc := &stubPaymentsService{
		handleFn: func(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}

	body := `{"Gloss":"pago","additionalData":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/qr/callback", strings.NewReader(body))
	resp := httptest.NewRecorder()
	QRCallback(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQRCallbackReplayReportsNotFound(t *testing.T) {
	svc := &stubPaymentsService{
		handleFn: func(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		},
	}

	body := `{"QRId":"QR-123","additionalData":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/qr/callback", strings.NewReader(body))
	resp := httptest.NewRecorder()
	QRCallback(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
