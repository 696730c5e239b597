package models

import (
	"time"

	"github.com/google/uuid"
)

// Variant is one purchasable product/attribute combination. Stock-affecting
// events never mutate this row directly; they append ledger entries. The
// stock/available columns are a denormalized cache refreshed opportunistically.
type Variant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	Available bool      `gorm:"column:available;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
