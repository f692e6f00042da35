package ports

import (
	"context"
	"time"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

// OrderRepository is the narrow slice of the host commerce system's
// record model this core reads and annotates.
type OrderRepository interface {
	LoadOrder(ctx context.Context, incrementID string) (*domain.Order, error)
	LoadPayment(ctx context.Context, incrementID string) (*domain.Payment, error)

	// LoadSplitPayments returns the sub-payments for a payment in
	// ascending creation order.
	LoadSplitPayments(ctx context.Context, paymentID int64) ([]domain.SplitPayment, error)

	// AppendStatusHistory appends a comment to the order's status
	// history. A non-empty status also transitions the order.
	AppendStatusHistory(ctx context.Context, incrementID, comment, status string) error

	// UpdateRefundedAmount increments a split payment's total_refunded
	// after a successful refund instruction.
	UpdateRefundedAmount(ctx context.Context, splitPaymentID int64, amount int64) error

	// SetPaymentDetail stores one additional-information key on the
	// payment (3DS tokens, voucher metadata, fraud score).
	SetPaymentDetail(ctx context.Context, paymentID int64, key, value string) error
}

// EventLedger is the append-only record of classified gateway responses.
type EventLedger interface {
	Record(ctx context.Context, event domain.Event) error

	// OriginalPspReference returns the psp reference of the order's
	// original authorisation, read at the top of every modification
	// entry point.
	OriginalPspReference(ctx context.Context, incrementID string) (string, error)
}

// SessionGuard controls the reserved-order-id marker that keeps a
// pending order-creation flow from colliding with an asynchronous
// notification for a different order, and carries the shopper redirect
// signal for 3-D-Secure flows.
type SessionGuard interface {
	ReserveOrderID(ctx context.Context, quoteID, incrementID string) error
	ResetReservedOrderID(ctx context.Context, quoteID string) error
	SetRedirectPath(ctx context.Context, quoteID, path string) error
}

// CacheInvalidator removes one cached entry. Removal is best-effort and
// idempotent; a miss is not an error.
type CacheInvalidator interface {
	Remove(ctx context.Context, key string) error
}

// Notifier publishes classified events for the out-of-scope
// notification-handling code.
type Notifier interface {
	PaymentRefused(ctx context.Context, incrementID, pspReference string) error
}

// StoreConfig supplies store-scoped gateway settings as plain lookups.
type StoreConfig interface {
	MerchantAccount(storeID string) string
	RecurringType(storeID string) string
	OrderStatusOnAuthorised(storeID string) string
	RefundStrategy(storeID string) domain.RefundStrategy
	UseZeroAuth(storeID string) bool
	ZeroAuthValidity(storeID string) time.Duration
}
