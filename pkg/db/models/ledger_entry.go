package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is an immutable signed stock movement. Positive quantities are
// stock received, negative quantities are confirmed sales. Entries are never
// updated; cancellation of a confirmed order tombstones them via DeletedAt.
type LedgerEntry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID      `gorm:"column:variant_id;type:uuid;not null;index"`
	Quantity  int            `gorm:"column:quantity;not null"`
	OrderID   *uuid.UUID     `gorm:"column:order_id;type:uuid;index"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// TableName keeps the historical table name used by the storefront schema.
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
