// Package domain defines the plain data model for post-authorisation
// payment modifications: orders, split payments, modification requests
// and the classified gateway responses.
package domain

import (
	"time"
)

// Order is the slice of the host commerce system's order record this core
// reads. Totals are minor-unit integer amounts.
type Order struct {
	IncrementID      string
	StoreID          string
	CustomerID       string
	QuoteID          string
	GrandTotal       int64
	CurrencyCode     string
	BaseCurrencyCode string
	CreatedAt        time.Time
}

// Payment is one authorisation context for an order. A payment may be
// funded by zero or more split payments created upstream at
// authorisation time.
type Payment struct {
	ID           int64
	OrderID      string
	Method       string
	CcType       string
	PspReference string
	FraudScore   *int
	// RecurringReference is the tokenized contract reference, set when the
	// shopper paid with a stored payment method.
	RecurringReference string
}

// SplitPayment is one of several independent authorisations jointly
// funding a single order. TotalRefunded never exceeds AuthorizedAmount.
type SplitPayment struct {
	ID               int64
	PaymentID        int64
	PspReference     string
	AuthorizedAmount int64
	TotalRefunded    int64
}

// RefundableRemainder returns the amount still available to refund
// against this split payment.
func (s SplitPayment) RefundableRemainder() int64 {
	return s.AuthorizedAmount - s.TotalRefunded
}
