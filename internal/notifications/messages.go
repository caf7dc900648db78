package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pasarlokal/pasarlokal-backend/internal/complaints"
	"github.com/pasarlokal/pasarlokal-backend/internal/ledger"
	"github.com/pasarlokal/pasarlokal-backend/internal/orders"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// Message is one rendered notification before persistence.
type Message struct {
	RecipientID uuid.UUID
	Title       string
	Body        string
}

// Render turns a domain event payload into the messages it should produce.
// Events with no audience return an empty slice, not an error.
func Render(eventType enums.OutboxEventType, data json.RawMessage) ([]Message, error) {
	switch eventType {
	case enums.EventOrderPaid,
		enums.EventOrderReady,
		enums.EventOrderAssigned,
		enums.EventOrderCompleted,
		enums.EventOrderCancelled:
		var payload orders.OrderLifecycleEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode order payload: %w", err)
		}
		return renderOrderLifecycle(eventType, payload), nil

	case enums.EventPayoutRecorded:
		var payload ledger.PayoutRecordedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode payout payload: %w", err)
		}
		return []Message{{
			RecipientID: payload.CourierID,
			Title:       "Delivery payout",
			Body:        fmt.Sprintf("You earned %s for order %s.", rupiah(payload.CourierCents), shortID(payload.OrderID)),
		}}, nil

	case enums.EventWithdrawalRequested:
		var payload ledger.WithdrawalRequestedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode withdrawal payload: %w", err)
		}
		return []Message{{
			RecipientID: payload.ActorID,
			Title:       "Withdrawal requested",
			Body:        fmt.Sprintf("%s has been set aside for withdrawal %s.", rupiah(payload.AmountCents), shortID(payload.WithdrawalID)),
		}}, nil

	case enums.EventWithdrawalSettled:
		var payload ledger.WithdrawalSettledEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode withdrawal payload: %w", err)
		}
		return renderWithdrawalSettled(payload), nil

	case enums.EventComplaintFiled,
		enums.EventComplaintResolved,
		enums.EventComplaintRejected:
		var payload complaints.ComplaintEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode complaint payload: %w", err)
		}
		return renderComplaint(eventType, payload), nil

	default:
		return nil, nil
	}
}

func renderOrderLifecycle(eventType enums.OutboxEventType, payload orders.OrderLifecycleEvent) []Message {
	order := shortID(payload.OrderID)
	switch eventType {
	case enums.EventOrderPaid:
		messages := make([]Message, 0, len(payload.MerchantIDs))
		for _, merchantID := range payload.MerchantIDs {
			messages = append(messages, Message{
				RecipientID: merchantID,
				Title:       "New paid order",
				Body:        fmt.Sprintf("Order %s is paid. Start packing.", order),
			})
		}
		return messages
	case enums.EventOrderReady:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Order packed",
			Body:        fmt.Sprintf("Order %s is packed and waiting for a courier.", order),
		}}
	case enums.EventOrderAssigned:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Courier on the way",
			Body:        fmt.Sprintf("A courier picked up order %s.", order),
		}}
	case enums.EventOrderCompleted:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Order delivered",
			Body:        fmt.Sprintf("Order %s was delivered. Enjoy!", order),
		}}
	case enums.EventOrderCancelled:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Order cancelled",
			Body:        fmt.Sprintf("Order %s was cancelled.", order),
		}}
	default:
		return nil
	}
}

func renderWithdrawalSettled(payload ledger.WithdrawalSettledEvent) []Message {
	if payload.Status == enums.WithdrawalStatusFailed {
		return []Message{{
			RecipientID: payload.ActorID,
			Title:       "Withdrawal failed",
			Body:        fmt.Sprintf("Withdrawal %s could not be completed. Support will reach out.", shortID(payload.WithdrawalID)),
		}}
	}
	return []Message{{
		RecipientID: payload.ActorID,
		Title:       "Withdrawal completed",
		Body:        fmt.Sprintf("%s is on the way to your account.", rupiah(payload.AmountCents)),
	}}
}

func renderComplaint(eventType enums.OutboxEventType, payload complaints.ComplaintEvent) []Message {
	switch eventType {
	case enums.EventComplaintFiled:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Complaint received",
			Body:        fmt.Sprintf("We received your complaint about order %s and will review it.", shortID(payload.OrderID)),
		}}
	case enums.EventComplaintResolved:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Complaint resolved",
			Body:        fmt.Sprintf("Your complaint about order %s was upheld. %s was refunded to your wallet.", shortID(payload.OrderID), rupiah(payload.RefundCents)),
		}}
	case enums.EventComplaintRejected:
		return []Message{{
			RecipientID: payload.CustomerID,
			Title:       "Complaint reviewed",
			Body:        fmt.Sprintf("Your complaint about order %s was reviewed and closed without a refund.", shortID(payload.OrderID)),
		}}
	default:
		return nil
	}
}

func rupiah(cents int) string {
	amount := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))
	return "Rp" + amount.StringFixed(2)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
