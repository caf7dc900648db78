package enums

import "fmt"

// OrderEvent names the transitions the order lifecycle accepts.
type OrderEvent string

const (
	OrderEventMarkPaid          OrderEvent = "mark_paid"
	OrderEventMerchantReady     OrderEvent = "merchant_ready"
	OrderEventCourierAccepted   OrderEvent = "courier_accepted"
	OrderEventDeliveryConfirmed OrderEvent = "delivery_confirmed"
	OrderEventCancel            OrderEvent = "cancel"
)

var validOrderEvents = []OrderEvent{
	OrderEventMarkPaid,
	OrderEventMerchantReady,
	OrderEventCourierAccepted,
	OrderEventDeliveryConfirmed,
	OrderEventCancel,
}

// String implements fmt.Stringer.
func (e OrderEvent) String() string {
	return string(e)
}

// IsValid reports whether the value is a known OrderEvent.
func (e OrderEvent) IsValid() bool {
	for _, candidate := range validOrderEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOrderEvent converts raw input into an OrderEvent.
func ParseOrderEvent(value string) (OrderEvent, error) {
	for _, candidate := range validOrderEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event %q", value)
}
