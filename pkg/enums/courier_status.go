package enums

import "fmt"

// CourierStatus tracks whether a courier may take new assignments.
type CourierStatus string

const (
	CourierStatusActive    CourierStatus = "active"
	CourierStatusSuspended CourierStatus = "suspended"
	CourierStatusOffline   CourierStatus = "offline"
)

var validCourierStatuses = []CourierStatus{
	CourierStatusActive,
	CourierStatusSuspended,
	CourierStatusOffline,
}

// String implements fmt.Stringer.
func (c CourierStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CourierStatus.
func (c CourierStatus) IsValid() bool {
	for _, candidate := range validCourierStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourierStatus converts raw input into a CourierStatus.
func ParseCourierStatus(value string) (CourierStatus, error) {
	for _, candidate := range validCourierStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid courier status %q", value)
}
