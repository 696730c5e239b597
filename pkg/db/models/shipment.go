package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero-dev/altiplano-backend/pkg/enums"
)

// Shipment is a closed tagged variant (national/international) rather than a
// subclass hierarchy. It never participates in stock logic; its price is
// folded into the frozen order total for online orders.
type Shipment struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind        enums.ShipmentKind `gorm:"column:kind;type:shipment_kind;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	AddressLine string             `gorm:"column:address_line;not null"`
	City        string             `gorm:"column:city;not null"`
	Country     string             `gorm:"column:country;not null"`
	// DHLCode is only populated for international shipments once the carrier
	// transition handler lands.
	DHLCode   *string   `gorm:"column:dhl_code"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
