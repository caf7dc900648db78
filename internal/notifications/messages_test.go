package notifications

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/internal/complaints"
	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

func mustMarshal(t *testing.T, payload any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestRenderOrderPaidFansOutToMerchants(t *testing.T) {
	merchants := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	payload := mustMarshal(t, orders.OrderLifecycleEvent{
		OrderID:     uuid.New(),
		CustomerID:  uuid.New(),
		MerchantIDs: merchants,
	})

	messages, err := Render(enums.EventOrderPaid, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != len(merchants) {
		t.Fatalf("messages = %d, want one per merchant", len(messages))
	}
	for i, message := range messages {
		if message.RecipientID != merchants[i] {
			t.Fatalf("message %d addressed to %s", i, message.RecipientID)
		}
		if !strings.Contains(message.Body, "Start packing") {
			t.Fatalf("unexpected body %q", message.Body)
		}
	}
}

func TestRenderOrderCompletedTargetsCustomer(t *testing.T) {
	customer := uuid.New()
	payload := mustMarshal(t, orders.OrderLifecycleEvent{
		OrderID:    uuid.New(),
		CustomerID: customer,
	})

	messages, err := Render(enums.EventOrderCompleted, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != 1 || messages[0].RecipientID != customer {
		t.Fatal("completion must notify exactly the customer")
	}
}

func TestRenderPayoutFormatsAmount(t *testing.T) {
	courier := uuid.New()
	payload := mustMarshal(t, ledger.PayoutRecordedEvent{
		OrderID:      uuid.New(),
		CourierID:    courier,
		CourierCents: 1300050,
	})

	messages, err := Render(enums.EventPayoutRecorded, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}
	if messages[0].RecipientID != courier {
		t.Fatal("payout must notify the courier")
	}
	if !strings.Contains(messages[0].Body, "Rp13000.50") {
		t.Fatalf("amount missing from body %q", messages[0].Body)
	}
}

func TestRenderWithdrawalFailed(t *testing.T) {
	actor := uuid.New()
	payload := mustMarshal(t, ledger.WithdrawalSettledEvent{
		WithdrawalID: uuid.New(),
		ActorID:      actor,
		Status:       enums.WithdrawalStatusFailed,
		AmountCents:  50000,
	})

	messages, err := Render(enums.EventWithdrawalSettled, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != 1 || messages[0].Title != "Withdrawal failed" {
		t.Fatalf("unexpected messages %+v", messages)
	}
}

func TestRenderComplaintResolvedMentionsRefund(t *testing.T) {
	customer := uuid.New()
	payload := mustMarshal(t, complaints.ComplaintEvent{
		ComplaintID: uuid.New(),
		OrderID:     uuid.New(),
		CustomerID:  customer,
		Status:      enums.ComplaintStatusResolved,
		RefundCents: 52000,
	})

	messages, err := Render(enums.EventComplaintResolved, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != 1 || messages[0].RecipientID != customer {
		t.Fatal("resolution must notify the customer")
	}
	if !strings.Contains(messages[0].Body, "Rp520.00") {
		t.Fatalf("refund missing from body %q", messages[0].Body)
	}
}

func TestRenderSilentEvents(t *testing.T) {
	payload := mustMarshal(t, orders.OrderLifecycleEvent{OrderID: uuid.New()})

	messages, err := Render(enums.EventOrderCreated, payload)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(messages) != 0 {
		t.Fatal("order_created has no audience")
	}
}
