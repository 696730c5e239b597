package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	internalorders "github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/internal/payments"
	"github.com/lromero-dev/altiplano-backend/internal/pricing"
	"github.com/lromero-dev/altiplano-backend/pkg/config"
	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

type noopOrdersService struct{}

func (noopOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "not wired")
}

func (noopOrdersService) ConfirmManual(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) ConfirmQR(ctx context.Context, input internalorders.QRConfirmationInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) Edit(ctx context.Context, input internalorders.EditOrderInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) ChangeStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return pkgerrors.New(pkgerrors.CodePreconditionFailed, "status transition not supported")
}

func (noopOrdersService) ExpireDue(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

type noopPricingService struct{}

func (noopPricingService) Reprice(ctx context.Context, input pricing.RepriceInput) (*pricing.Snapshot, error) {
	return &pricing.Snapshot{Token: "stub"}, nil
}

func (noopPricingService) ParseToken(tokenString string) (*pricing.CartTokenClaims, error) {
	return nil, pkgerrors.New(pkgerrors.CodePreconditionFailed, "cart token rejected")
}

type noopPaymentsService struct{}

func (noopPaymentsService) HandleQRCallback(ctx context.Context, payload payments.QRCallbackPayload) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(cfg, logg, nil, nil, noopPricingService{}, noopOrdersService{}, noopPaymentsService{})
}

func TestRouterHealthLive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Altiplano-Env"); got != "test" {
		t.Fatalf("env header missing, got %q", got)
	}
}

func TestRouterHealthReadyWithoutBackends(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterKnownRoutesAreMounted(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/pricing/reprice"},
		{http.MethodPost, "/api/v1/orders/in-store"},
		{http.MethodPost, "/api/v1/orders/online"},
		{http.MethodPost, "/api/v1/orders/" + uuid.NewString() + "/confirm"},
		{http.MethodPost, "/api/v1/orders/" + uuid.NewString() + "/cancel"},
		{http.MethodPatch, "/api/v1/orders/" + uuid.NewString()},
		{http.MethodPut, "/api/v1/orders/" + uuid.NewString() + "/status"},
		{http.MethodPost, "/api/v1/payments/qr/callback"},
	}

	router := testRouter()
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		// Unmounted paths fall through to chi's plain-text 404.
		if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s %s is not mounted (content-type %q, status %d)", tc.method, tc.path, ct, resp.Code)
		}
		if resp.Code == http.StatusMethodNotAllowed {
			t.Fatalf("%s %s mounted under wrong method", tc.method, tc.path)
		}
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	testRouter().ServeHTTP(resp, req)

	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header not set")
	}
}
