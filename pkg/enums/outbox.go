package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder       OutboxAggregateType = "order"
	AggregateWallet      OutboxAggregateType = "wallet"
	AggregateComplaint   OutboxAggregateType = "complaint"
	AggregateWithdrawal  OutboxAggregateType = "withdrawal"
	AggregateLedgerEntry OutboxAggregateType = "ledger_entry"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateWallet,
	AggregateComplaint,
	AggregateWithdrawal,
	AggregateLedgerEntry,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderCreated        OutboxEventType = "order_created"
	EventOrderPaid           OutboxEventType = "order_paid"
	EventOrderReady          OutboxEventType = "order_ready_for_dispatch"
	EventOrderAssigned       OutboxEventType = "order_courier_assigned"
	EventOrderCompleted      OutboxEventType = "order_completed"
	EventOrderCancelled      OutboxEventType = "order_cancelled"
	EventPayoutRecorded      OutboxEventType = "payout_recorded"
	EventWithdrawalRequested OutboxEventType = "withdrawal_requested"
	EventWithdrawalSettled   OutboxEventType = "withdrawal_settled"
	EventComplaintFiled      OutboxEventType = "complaint_filed"
	EventComplaintResolved   OutboxEventType = "complaint_resolved"
	EventComplaintRejected   OutboxEventType = "complaint_rejected"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderPaid,
	EventOrderReady,
	EventOrderAssigned,
	EventOrderCompleted,
	EventOrderCancelled,
	EventPayoutRecorded,
	EventWithdrawalRequested,
	EventWithdrawalSettled,
	EventComplaintFiled,
	EventComplaintResolved,
	EventComplaintRejected,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
