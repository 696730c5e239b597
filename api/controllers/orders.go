package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lromero-dev/altiplano-backend/api/responses"
	"github.com/lromero-dev/altiplano-backend/api/validators"
	internalorders "github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

type createInStoreOrderRequest struct {
	CartToken     string `json:"cart_token" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type createOnlineOrderRequest struct {
	CartToken     string               `json:"cart_token" validate:"required"`
	PaymentMethod string               `json:"payment_method" validate:"required"`
	CustomerID    string               `json:"customer_id" validate:"required,uuid"`
	Shipment      shipmentRequestBlock `json:"shipment" validate:"required"`
}

type shipmentRequestBlock struct {
	Kind        string `json:"kind" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

type editOrderRequest struct {
	CartToken string `json:"cart_token" validate:"required"`
}

type changeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateInStoreOrder opens a pending counter sale from a priced cart token.
func CreateInStoreOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createInStoreOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.Create(r.Context(), internalorders.CreateOrderInput{
			Type:          enums.OrderTypeInStore,
			PaymentMethod: method,
			CartToken:     req.CartToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalorders.NewOrderResponse(order))
	}
}

// CreateOnlineOrder opens a pending online sale with its customer and
// shipment context.
func CreateOnlineOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOnlineOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}
		kind, err := enums.ParseShipmentKind(req.Shipment.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipment kind"))
			return
		}
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		order, err := svc.Create(r.Context(), internalorders.CreateOrderInput{
			Type:          enums.OrderTypeOnline,
			PaymentMethod: method,
			CartToken:     req.CartToken,
			CustomerID:    &customerID,
			Shipment: &internalorders.ShipmentInput{
				Kind:        kind,
				AddressLine: req.Shipment.AddressLine,
				City:        req.Shipment.City,
				Country:     req.Shipment.Country,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalorders.NewOrderResponse(order))
	}
}

// ConfirmOrder settles a pending in-store order paid by cash or card.
func ConfirmOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmManual(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderResponse(order))
	}
}

// CancelOrder cancels a pending or confirmed order and releases its stock.
func CancelOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(enums.OrderStatusCancelled)})
	}
}

// EditOrder replaces an order's cart with a freshly priced one.
func EditOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req editOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Edit(r.Context(), internalorders.EditOrderInput{
			OrderID:   orderID,
			CartToken: req.CartToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.NewOrderResponse(order))
	}
}

// ChangeOrderStatus applies an explicit status transition request.
func ChangeOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req changeOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		if err := svc.ChangeStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}
