package orders

import (
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// State is the effective order state combining the two independent axes.
type State struct {
	Payment  enums.PaymentStatus
	Shipping enums.ShippingStatus
}

// transitionTable is the single source of truth for the order lifecycle.
// Every mutation goes through a conditional update keyed on the from-state,
// so a stale precondition fails instead of clobbering a concurrent writer.
var transitionTable = map[enums.OrderEvent]map[State]State{
	enums.OrderEventMarkPaid: {
		{enums.PaymentStatusUnpaid, enums.ShippingStatusPacking}: {enums.PaymentStatusPaid, enums.ShippingStatusPacking},
	},
	enums.OrderEventMerchantReady: {
		{enums.PaymentStatusPaid, enums.ShippingStatusPacking}: {enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier},
	},
	enums.OrderEventCourierAccepted: {
		{enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier}: {enums.PaymentStatusPaid, enums.ShippingStatusShipping},
	},
	enums.OrderEventDeliveryConfirmed: {
		{enums.PaymentStatusPaid, enums.ShippingStatusShipping}: {enums.PaymentStatusPaid, enums.ShippingStatusCompleted},
	},
	enums.OrderEventCancel: {
		{enums.PaymentStatusUnpaid, enums.ShippingStatusPacking}:        {enums.PaymentStatusUnpaid, enums.ShippingStatusCancelled},
		{enums.PaymentStatusPaid, enums.ShippingStatusPacking}:          {enums.PaymentStatusPaid, enums.ShippingStatusCancelled},
		{enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier}: {enums.PaymentStatusPaid, enums.ShippingStatusCancelled},
	},
}

// NextState returns the target state for an event applied to the current
// state, or false when the transition is not in the table.
func NextState(current State, event enums.OrderEvent) (State, bool) {
	targets, ok := transitionTable[event]
	if !ok {
		return State{}, false
	}
	next, ok := targets[current]
	return next, ok
}

// ValidState reports whether a (payment, shipping) tuple is reachable from
// the initial state. Orders are constructed in (UNPAID, PACKING) and any
// tuple outside the lifecycle is rejected at the boundary.
func ValidState(payment enums.PaymentStatus, shipping enums.ShippingStatus) bool {
	if !payment.IsValid() || !shipping.IsValid() {
		return false
	}
	switch shipping {
	case enums.ShippingStatusSearchingCourier, enums.ShippingStatusShipping, enums.ShippingStatusCompleted:
		// dispatch and delivery only happen after payment
		return payment == enums.PaymentStatusPaid
	default:
		return true
	}
}
