package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	internalorders "github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
)

type stubOrdersService struct {
	createFn        func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	confirmManualFn func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	cancelFn        func(ctx context.Context, orderID uuid.UUID) error
	editFn          func(ctx context.Context, input internalorders.EditOrderInput) (*models.Order, error)
	changeStatusFn  func(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	return s.createFn(ctx, input)
}

func (s *stubOrdersService) ConfirmManual(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.confirmManualFn(ctx, orderID)
}

func (s *stubOrdersService) ConfirmQR(ctx context.Context, input internalorders.QRConfirmationInput) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrdersService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return s.cancelFn(ctx, orderID)
}

func (s *stubOrdersService) Edit(ctx context.Context, input internalorders.EditOrderInput) (*models.Order, error) {
	return s.editFn(ctx, input)
}

func (s *stubOrdersService) ChangeStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return s.changeStatusFn(ctx, orderID, status)
}

func (s *stubOrdersService) ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

func orderRouter(svc internalorders.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/orders/in-store", CreateInStoreOrder(svc, nil))
	r.Post("/api/v1/orders/online", CreateOnlineOrder(svc, nil))
	r.Post("/api/v1/orders/{orderId}/confirm", ConfirmOrder(svc, nil))
	r.Post("/api/v1/orders/{orderId}/cancel", CancelOrder(svc, nil))
	r.Patch("/api/v1/orders/{orderId}", EditOrder(svc, nil))
	r.Put("/api/v1/orders/{orderId}/status", ChangeOrderStatus(svc, nil))
	return r
}

func TestCreateInStoreOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			if input.Type != enums.OrderTypeInStore {
				t.Fatalf("unexpected order type %s", input.Type)
			}
			if input.PaymentMethod != enums.PaymentMethodCash {
				t.Fatalf("unexpected payment method %s", input.PaymentMethod)
			}
			if input.CustomerID != nil || input.Shipment != nil {
				t.Fatalf("counter sale must not carry customer context")
			}
			return &models.Order{
				ID:            orderID,
				Type:          input.Type,
				Status:        enums.OrderStatusPending,
				PaymentMethod: input.PaymentMethod,
				TotalPrice:    decimal.RequireFromString("20.00"),
			}, nil
		},
	}

	body := `{"cart_token":"signed-token","payment_method":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/in-store", strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data internalorders.OrderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != orderID {
		t.Fatalf("unexpected order id %s", envelope.Data.ID)
	}
	if envelope.Data.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestCreateInStoreOrderRejectsUnknownPaymentMethod(t *testing.T) {
	svc := &stubOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}

	body := `{"cart_token":"signed-token","payment_method":"barter"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/in-store", strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateOnlineOrderCarriesShipment(t *testing.T) {
	customerID := uuid.New()
	svc := &stubOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			if input.Type != enums.OrderTypeOnline {
				t.Fatalf("unexpected order type %s", input.Type)
			}
			if input.CustomerID == nil || *input.CustomerID != customerID {
				t.Fatalf("customer id not forwarded")
			}
			if input.Shipment == nil || input.Shipment.Kind != enums.ShipmentKindNational {
				t.Fatalf("shipment not forwarded")
			}
			return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
		},
	}

	body := `{"cart_token":"signed-token","payment_method":"qr","customer_id":"` + customerID.String() + `","shipment":{"kind":"national","address_line":"Av. Arce 123","city":"La Paz","country":"BO"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/online", strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateOnlineOrderRequiresShipment(t *testing.T) {
	svc := &stubOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}

	body := `{"cart_token":"signed-token","payment_method":"qr","customer_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/online", strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestConfirmOrderMapsInsufficientStateToPrecondition(t *testing.T) {
	svc := &stubOrdersService{
		confirmManualFn: func(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodePreconditionFailed, "order has expired")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/confirm", nil)
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 got %d", resp.Code)
	}
}

func TestConfirmOrderRejectsMalformedID(t *testing.T) {
	svc := &stubOrdersService{
		confirmManualFn: func(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
			t.Fatalf("service must not be reached")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/not-a-uuid/confirm", nil)
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCancelOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	var got uuid.UUID
	svc := &stubOrdersService{
		cancelFn: func(ctx context.Context, id uuid.UUID) error {
			got = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", nil)
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got != orderID {
		t.Fatalf("cancel called with %s, want %s", got, orderID)
	}
}

func TestEditOrderForwardsToken(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		editFn: func(ctx context.Context, input internalorders.EditOrderInput) (*models.Order, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order id %s", input.OrderID)
			}
			if input.CartToken != "replacement-token" {
				t.Fatalf("unexpected token %s", input.CartToken)
			}
			return &models.Order{ID: uuid.New(), Status: enums.OrderStatusSent, Edited: true}, nil
		},
	}

	body := `{"cart_token":"replacement-token"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String(), strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestChangeOrderStatusNotSupported(t *testing.T) {
	svc := &stubOrdersService{
		changeStatusFn: func(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
			return pkgerrors.New(pkgerrors.CodePreconditionFailed, "status transition not supported")
		},
	}

	body := `{"status":"sent"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	resp := httptest.NewRecorder()
	orderRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 got %d", resp.Code)
	}
}
