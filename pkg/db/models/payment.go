package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the immutable record of a QR gateway settlement notification,
// linked 1:1 to a confirmed order.
type Payment struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_payments_order"`
	QRID                string          `gorm:"column:qr_id;not null"`
	Gloss               string          `gorm:"column:gloss"`
	SourceBankID        string          `gorm:"column:source_bank_id"`
	OriginName          string          `gorm:"column:origin_name"`
	VoucherID           string          `gorm:"column:voucher_id"`
	TransactionDateTime time.Time       `gorm:"column:transaction_datetime"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CurrencyID          string          `gorm:"column:currency_id"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}
