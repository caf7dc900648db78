package orders

import (
	"time"

	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/db/models"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// IsLate evaluates the advisory SLA for an order at read time. An unpaid
// order is late when the payment window has passed since creation; a paid
// order still packing is late when the packing window has passed since
// payment. Lateness drives operator escalation and never cancels anything.
func IsLate(order models.Order, now time.Time, engine config.EngineConfig) bool {
	if order.ShippingStatus.IsTerminal() {
		return false
	}
	if order.PaymentStatus == enums.PaymentStatusUnpaid {
		return now.Sub(order.CreatedAt) > engine.UnpaidSLA
	}
	if order.ShippingStatus == enums.ShippingStatusPacking && order.PaidAt != nil {
		return now.Sub(*order.PaidAt) > engine.PackingSLA
	}
	return false
}
