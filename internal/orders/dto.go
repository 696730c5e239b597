package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero-dev/altiplano-backend/pkg/db/models"
	"github.com/lromero-dev/altiplano-backend/pkg/enums"
)

// CreateOrderInput carries everything order creation needs. CartToken is the
// signed pricing snapshot issued by the repricing endpoint; the catalog is
// never re-read here.
type CreateOrderInput struct {
	Type          enums.OrderType
	PaymentMethod enums.PaymentMethod
	CartToken     string

	// Online orders only.
	CustomerID *uuid.UUID
	Shipment   *ShipmentInput
}

// ShipmentInput describes the delivery leg of an online order. The price is
// resolved from configuration by kind, never taken from the client.
type ShipmentInput struct {
	Kind        enums.ShipmentKind
	AddressLine string
	City        string
	Country     string
}

// QRConfirmationInput mirrors the gateway settlement notification consumed by
// the payments callback.
type QRConfirmationInput struct {
	OrderID             uuid.UUID
	QRID                string
	Gloss               string
	SourceBankID        string
	OriginName          string
	VoucherID           string
	TransactionDateTime time.Time
	Amount              decimal.Decimal
	CurrencyID          string
}

// EditOrderInput replaces an order's cart wholesale. The replacement reuses
// the original's customer and shipment context and is paid in cash.
type EditOrderInput struct {
	OrderID   uuid.UUID
	CartToken string
}

// OrderResponse is the API projection of an order.
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Type          enums.OrderType     `json:"type"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
	Edited        bool                `json:"edited"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	ShipmentID    *uuid.UUID          `json:"shipment_id,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderItemResponse is one priced line of an order.
type OrderItemResponse struct {
	VariantID     uuid.UUID       `json:"variant_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrderResponse projects a stored order into its API shape.
func NewOrderResponse(order *models.Order) *OrderResponse {
	if order == nil {
		return nil
	}
	resp := &OrderResponse{
		ID:            order.ID,
		Type:          order.Type,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		TotalPrice:    order.TotalPrice,
		ExpiresAt:     order.ExpiresAt,
		Edited:        order.Edited,
		CustomerID:    order.CustomerID,
		ShipmentID:    order.ShipmentID,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			VariantID:     item.VariantID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountValue: item.DiscountValue,
			Total:         item.Total,
		})
	}
	return resp
}
