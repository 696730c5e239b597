package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lromero-dev/altiplano-backend/pkg/enums"
)

// StockReservation is a time-boxed hold of quantity against a variant for one
// order. ExpiresAt is cleared when the hold is confirmed; a PENDING hold past
// its deadline counts as absent for every availability computation, even
// before the sweep flips its status.
type StockReservation struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID               `gorm:"column:variant_id;type:uuid;not null;index;uniqueIndex:idx_reservation_order_variant"`
	OrderID   uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_reservation_order_variant"`
	Quantity  int                     `gorm:"column:quantity;not null"`
	Status    enums.ReservationStatus `gorm:"column:status;type:reservation_status;not null;default:'pending'"`
	ExpiresAt *time.Time              `gorm:"column:expires_at"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
