// Package postgres implements the repository ports against the host
// commerce schema.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/persistence"
)

type OrderRepository struct {
	db persistence.Executor
}

func NewOrderRepository(db persistence.Executor) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) LoadOrder(ctx context.Context, incrementID string) (*domain.Order, error) {
	query := `
		SELECT increment_id, store_id, customer_id, quote_id,
		       grand_total, currency_code, base_currency_code, created_at
		FROM orders WHERE increment_id = $1
	`

	var m OrderModel
	err := r.db.QueryRow(ctx, query, incrementID).Scan(
		&m.IncrementID, &m.StoreID, &m.CustomerID, &m.QuoteID,
		&m.GrandTotal, &m.CurrencyCode, &m.BaseCurrencyCode, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(incrementID)
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return toOrderDomain(m), nil
}

func (r *OrderRepository) LoadPayment(ctx context.Context, incrementID string) (*domain.Payment, error) {
	query := `
		SELECT p.id, p.order_id, p.method, p.cc_type,
		       p.psp_reference, p.fraud_score, p.recurring_reference
		FROM payments p
		JOIN orders o ON o.increment_id = p.order_id
		WHERE o.increment_id = $1
	`

	var m PaymentModel
	err := r.db.QueryRow(ctx, query, incrementID).Scan(
		&m.ID, &m.OrderID, &m.Method, &m.CcType,
		&m.PspReference, &m.FraudScore, &m.RecurringReference,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(incrementID)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return toPaymentDomain(m), nil
}

func (r *OrderRepository) LoadSplitPayments(ctx context.Context, paymentID int64) ([]domain.SplitPayment, error) {
	query := `
		SELECT id, payment_id, psp_reference, authorized_amount, total_refunded
		FROM split_payments
		WHERE payment_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query split payments: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SplitPayment, error) {
		var m SplitPaymentModel
		err := row.Scan(&m.ID, &m.PaymentID, &m.PspReference, &m.AuthorizedAmount, &m.TotalRefunded)
		return toSplitPaymentDomain(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan split payments: %w", err)
	}
	return results, nil
}

func (r *OrderRepository) AppendStatusHistory(ctx context.Context, incrementID, comment, status string) error {
	query := `
		INSERT INTO status_history (increment_id, comment, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), now())
	`

	if _, err := r.db.Exec(ctx, query, incrementID, comment, status); err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	if status == "" {
		return nil
	}

	result, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE increment_id = $2`, status, incrementID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(incrementID)
	}
	return nil
}

func (r *OrderRepository) UpdateRefundedAmount(ctx context.Context, splitPaymentID int64, amount int64) error {
	query := `
		UPDATE split_payments
		SET total_refunded = total_refunded + $1
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, amount, splitPaymentID)
	if err != nil {
		return fmt.Errorf("failed to update refunded amount: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("split payment %d not found", splitPaymentID)
	}
	return nil
}

func (r *OrderRepository) SetPaymentDetail(ctx context.Context, paymentID int64, key, value string) error {
	query := `
		INSERT INTO payment_details (payment_id, detail_key, detail_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (payment_id, detail_key) DO UPDATE SET detail_value = EXCLUDED.detail_value
	`

	if _, err := r.db.Exec(ctx, query, paymentID, key, value); err != nil {
		return fmt.Errorf("failed to set payment detail: %w", err)
	}
	return nil
}
