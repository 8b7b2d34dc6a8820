package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks where a delivery sits in the payment workflow.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "Pending"
	StatusApproved PaymentStatus = "Approved"
	StatusRejected PaymentStatus = "Rejected"
	StatusPaid     PaymentStatus = "Paid"
)

// Paid and Rejected have no outgoing edges.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
}

// CheckTransition returns an InvalidTransitionError unless next is reachable
// from current in one step.
func CheckTransition(current, next PaymentStatus) error {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return InvalidTransitionError{From: current, To: next}
}

// PurchaseOrder is a customer order whose remaining kilos shrink with each delivery.
type PurchaseOrder struct {
	ID             int64           `json:"id"`
	Customer       string          `json:"customer"`
	Date           time.Time       `json:"date"`
	Kilos          decimal.Decimal `json:"kilos"`
	RemainingKilos decimal.Decimal `json:"remaining_kilos"`
	PricePerKilo   decimal.Decimal `json:"price_per_kilo"`
}

// Delivery is a shipment against a purchase order and its payment state.
type Delivery struct {
	ID              int64           `json:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id"`
	Date            time.Time       `json:"date"`
	Kilos           decimal.Decimal `json:"kilos"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
}
