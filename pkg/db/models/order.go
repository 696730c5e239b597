package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/pkg/enums"
)

// Order is the aggregate root of the reservation engine. The total is frozen
// at creation/repricing time; ExpiresAt mirrors the reservation TTL and is
// cleared on confirmation. In-store orders never carry customer or shipment
// references.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type          enums.OrderType     `gorm:"column:type;type:order_type;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	ExpiresAt     *time.Time          `gorm:"column:expires_at"`
	Edited        bool                `gorm:"column:edited;not null;default:false"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	ShipmentID    *uuid.UUID          `gorm:"column:shipment_id;type:uuid"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID"`
	Shipment      *Shipment           `gorm:"foreignKey:ShipmentID"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment       *Payment            `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt      `gorm:"column:deleted_at;index"`
}
