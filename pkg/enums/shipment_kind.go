package enums

import "fmt"

// ShipmentKind is the closed set of shipment variants. It never participates
// in stock logic.
type ShipmentKind string

const (
	ShipmentKindNational      ShipmentKind = "national"
	ShipmentKindInternational ShipmentKind = "international"
)

var validShipmentKinds = []ShipmentKind{
	ShipmentKindNational,
	ShipmentKindInternational,
}

// IsValid reports whether the value is a known ShipmentKind.
func (k ShipmentKind) IsValid() bool {
	for _, candidate := range validShipmentKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseShipmentKind converts raw input into a ShipmentKind.
func ParseShipmentKind(value string) (ShipmentKind, error) {
	for _, candidate := range validShipmentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment kind %q", value)
}
