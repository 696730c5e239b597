package enums

import "fmt"

// OrderStatus maps to the order_status enum in Postgres.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusSent             OrderStatus = "sent"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusCancelled        OrderStatus = "cancelled"
	OrderStatusCancelledForEdit OrderStatus = "cancelled_for_edit"
	OrderStatusExpired          OrderStatus = "expired"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusSent,
	OrderStatusPaid,
	OrderStatusCancelled,
	OrderStatusCancelledForEdit,
	OrderStatusExpired,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusExpired
}

// IsConfirmed reports whether the order already produced ledger entries.
func (s OrderStatus) IsConfirmed() bool {
	return s == OrderStatusSent || s == OrderStatusPaid
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
