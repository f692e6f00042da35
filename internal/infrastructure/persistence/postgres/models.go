package postgres

import "time"

// Row models mirror the host commerce schema one to one; mapping to the
// domain types lives in mappers.go.

type OrderModel struct {
	IncrementID      string
	StoreID          string
	CustomerID       string
	QuoteID          string
	GrandTotal       int64
	CurrencyCode     string
	BaseCurrencyCode string
	CreatedAt        time.Time
}

type PaymentModel struct {
	ID                 int64
	OrderID            string
	Method             string
	CcType             *string
	PspReference       *string
	FraudScore         *int
	RecurringReference *string
}

type SplitPaymentModel struct {
	ID               int64
	PaymentID        int64
	PspReference     string
	AuthorizedAmount int64
	TotalRefunded    int64
}

type EventModel struct {
	ID            string
	PspReference  string
	EventCode     string
	EventResult   string
	IncrementID   string
	PaymentMethod *string
	CreatedAt     time.Time
}
