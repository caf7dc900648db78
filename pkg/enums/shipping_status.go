package enums

import "fmt"

// ShippingStatus tracks delivery progress for an order. COMPLETED and
// CANCELLED are terminal.
type ShippingStatus string

const (
	ShippingStatusPacking          ShippingStatus = "packing"
	ShippingStatusSearchingCourier ShippingStatus = "searching_courier"
	ShippingStatusShipping         ShippingStatus = "shipping"
	ShippingStatusCompleted        ShippingStatus = "completed"
	ShippingStatusCancelled        ShippingStatus = "cancelled"
)

var validShippingStatuses = []ShippingStatus{
	ShippingStatusPacking,
	ShippingStatusSearchingCourier,
	ShippingStatusShipping,
	ShippingStatusCompleted,
	ShippingStatusCancelled,
}

// String implements fmt.Stringer.
func (s ShippingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingStatus.
func (s ShippingStatus) IsValid() bool {
	for _, candidate := range validShippingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further shipping transition is allowed.
func (s ShippingStatus) IsTerminal() bool {
	return s == ShippingStatusCompleted || s == ShippingStatusCancelled
}

// ParseShippingStatus converts raw input into a ShippingStatus.
func ParseShippingStatus(value string) (ShippingStatus, error) {
	for _, candidate := range validShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping status %q", value)
}
