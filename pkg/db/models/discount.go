package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount is a percentage off a product's unit price, valid inside an
// optional date window.
type Discount struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Percentage decimal.Decimal `gorm:"column:percentage;type:numeric(5,2);not null"`
	IsActive   bool            `gorm:"column:is_active;not null;default:false"`
	StartDate  *time.Time      `gorm:"column:start_date"`
	EndDate    *time.Time      `gorm:"column:end_date"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PercentageAt returns the discount percentage when active at the given
// instant and zero otherwise.
func (d *Discount) PercentageAt(now time.Time) decimal.Decimal {
	if !d.ActiveAt(now) {
		return decimal.Zero
	}
	return d.Percentage
}

// ActiveAt reports whether the discount applies at the given instant.
func (d *Discount) ActiveAt(now time.Time) bool {
	if d == nil || !d.IsActive {
		return false
	}
	if d.StartDate != nil && d.StartDate.After(now) {
		return false
	}
	if d.EndDate != nil && d.EndDate.Before(now) {
		return false
	}
	return true
}
