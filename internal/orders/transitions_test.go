package orders

import (
	"testing"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

func TestNextStateHappyPath(t *testing.T) {
	current := State{enums.PaymentStatusUnpaid, enums.ShippingStatusPacking}

	steps := []struct {
		event enums.OrderEvent
		want  State
	}{
		{enums.OrderEventMarkPaid, State{enums.PaymentStatusPaid, enums.ShippingStatusPacking}},
		{enums.OrderEventMerchantReady, State{enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier}},
		{enums.OrderEventCourierAccepted, State{enums.PaymentStatusPaid, enums.ShippingStatusShipping}},
		{enums.OrderEventDeliveryConfirmed, State{enums.PaymentStatusPaid, enums.ShippingStatusCompleted}},
	}
	for _, step := range steps {
		next, ok := NextState(current, step.event)
		if !ok {
			t.Fatalf("expected %s to apply from %+v", step.event, current)
		}
		if next != step.want {
			t.Fatalf("event %s: got %+v, want %+v", step.event, next, step.want)
		}
		current = next
	}
}

func TestNextStateRejectsOutOfOrderEvents(t *testing.T) {
	cases := []struct {
		name    string
		current State
		event   enums.OrderEvent
	}{
		{"pay twice", State{enums.PaymentStatusPaid, enums.ShippingStatusPacking}, enums.OrderEventMarkPaid},
		{"ready before payment", State{enums.PaymentStatusUnpaid, enums.ShippingStatusPacking}, enums.OrderEventMerchantReady},
		{"accept before ready", State{enums.PaymentStatusPaid, enums.ShippingStatusPacking}, enums.OrderEventCourierAccepted},
		{"confirm before shipping", State{enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier}, enums.OrderEventDeliveryConfirmed},
		{"cancel while shipping", State{enums.PaymentStatusPaid, enums.ShippingStatusShipping}, enums.OrderEventCancel},
		{"cancel after completion", State{enums.PaymentStatusPaid, enums.ShippingStatusCompleted}, enums.OrderEventCancel},
		{"confirm after completion", State{enums.PaymentStatusPaid, enums.ShippingStatusCompleted}, enums.OrderEventDeliveryConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := NextState(tc.current, tc.event); ok {
				t.Fatalf("event %s should not apply from %+v", tc.event, tc.current)
			}
		})
	}
}

func TestCancelWindowsBeforeDispatch(t *testing.T) {
	cancellable := []State{
		{enums.PaymentStatusUnpaid, enums.ShippingStatusPacking},
		{enums.PaymentStatusPaid, enums.ShippingStatusPacking},
		{enums.PaymentStatusPaid, enums.ShippingStatusSearchingCourier},
	}
	for _, from := range cancellable {
		next, ok := NextState(from, enums.OrderEventCancel)
		if !ok {
			t.Fatalf("cancel should apply from %+v", from)
		}
		if next.Shipping != enums.ShippingStatusCancelled {
			t.Fatalf("cancel from %+v landed on %+v", from, next)
		}
		if next.Payment != from.Payment {
			t.Fatalf("cancel must not touch payment status, got %+v from %+v", next, from)
		}
	}

	// dispatch never starts for an unpaid order, so that tuple is neither a
	// valid state nor a cancel source
	unreachable := State{enums.PaymentStatusUnpaid, enums.ShippingStatusSearchingCourier}
	if ValidState(unreachable.Payment, unreachable.Shipping) {
		t.Fatal("searching for a courier while unpaid must not be a valid state")
	}
	if _, ok := NextState(unreachable, enums.OrderEventCancel); ok {
		t.Fatal("cancel must not apply from an unreachable tuple")
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	terminals := []State{
		{enums.PaymentStatusPaid, enums.ShippingStatusCompleted},
		{enums.PaymentStatusUnpaid, enums.ShippingStatusCancelled},
		{enums.PaymentStatusPaid, enums.ShippingStatusCancelled},
	}
	events := []enums.OrderEvent{
		enums.OrderEventMarkPaid,
		enums.OrderEventMerchantReady,
		enums.OrderEventCourierAccepted,
		enums.OrderEventDeliveryConfirmed,
		enums.OrderEventCancel,
	}
	for _, terminal := range terminals {
		for _, event := range events {
			if _, ok := NextState(terminal, event); ok {
				t.Fatalf("terminal state %+v accepted %s", terminal, event)
			}
		}
	}
}

func TestValidState(t *testing.T) {
	if !ValidState(enums.PaymentStatusUnpaid, enums.ShippingStatusPacking) {
		t.Fatal("initial state must be valid")
	}
	if ValidState(enums.PaymentStatusUnpaid, enums.ShippingStatusShipping) {
		t.Fatal("shipping without payment must be invalid")
	}
	if ValidState(enums.PaymentStatusUnpaid, enums.ShippingStatusCompleted) {
		t.Fatal("completed without payment must be invalid")
	}
	if ValidState("torn", enums.ShippingStatusPacking) {
		t.Fatal("unknown payment status must be invalid")
	}
}
