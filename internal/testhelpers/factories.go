package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

// SeedOrder inserts an order with one payment row and returns the
// payment id.
func SeedOrder(t *testing.T, ctx context.Context, td *TestDatabase, order domain.Order, payment domain.Payment) int64 {
	t.Helper()

	_, err := td.DB.Pool.Exec(ctx, `
		INSERT INTO orders (increment_id, store_id, customer_id, quote_id,
		                    grand_total, currency_code, base_currency_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.IncrementID, order.StoreID, order.CustomerID, order.QuoteID,
		order.GrandTotal, order.CurrencyCode, order.BaseCurrencyCode, order.CreatedAt)
	require.NoError(t, err)

	var paymentID int64
	err = td.DB.Pool.QueryRow(ctx, `
		INSERT INTO payments (order_id, method, cc_type, psp_reference, recurring_reference)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`, order.IncrementID, payment.Method, payment.CcType, payment.PspReference, payment.RecurringReference).Scan(&paymentID)
	require.NoError(t, err)

	return paymentID
}

// SeedSplitPayment inserts one sub-payment row and returns its id.
func SeedSplitPayment(t *testing.T, ctx context.Context, td *TestDatabase, paymentID int64, pspReference string, authorized, refunded int64) int64 {
	t.Helper()

	var id int64
	err := td.DB.Pool.QueryRow(ctx, `
		INSERT INTO split_payments (payment_id, psp_reference, authorized_amount, total_refunded)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, paymentID, pspReference, authorized, refunded).Scan(&id)
	require.NoError(t, err)

	return id
}

// DefaultOrder returns a valid order row for seeding.
func DefaultOrder(incrementID string) domain.Order {
	return domain.Order{
		IncrementID:      incrementID,
		StoreID:          "default",
		CustomerID:       "cust-1",
		QuoteID:          "quote-" + incrementID,
		GrandTotal:       10000,
		CurrencyCode:     "EUR",
		BaseCurrencyCode: "EUR",
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
}
