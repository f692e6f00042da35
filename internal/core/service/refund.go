package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborline/payment-orchestrator/internal/core/allocation"
	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// RefundService runs one allocation pass for a refund request and
// dispatches the resulting instructions sequentially. Instructions feed
// on the committed remainder state of earlier ones, so there is exactly
// one gateway round-trip in flight at a time; on the first failure the
// remaining instructions are not attempted and already-sent ones stay
// committed. Concurrent refunds against the same order must be
// serialized by the caller.
type RefundService struct {
	mods   *ModificationService
	orders ports.OrderRepository
	events ports.EventLedger
	config ports.StoreConfig
	logger *slog.Logger
}

func NewRefundService(mods *ModificationService, orders ports.OrderRepository, events ports.EventLedger, config ports.StoreConfig, logger *slog.Logger) *RefundService {
	return &RefundService{
		mods:   mods,
		orders: orders,
		events: events,
		config: config,
		logger: logger,
	}
}

// RefundRequest is one refund attempt against an order. CreditMemoTotal
// is the already-created credit memo's grand total, when one exists.
type RefundRequest struct {
	IncrementID     string
	Amount          int64
	CreditMemoTotal *int64
}

func (s *RefundService) Refund(ctx context.Context, req RefundRequest) ([]domain.Outcome, error) {
	s.logger.Info("refund requested", "increment_id", req.IncrementID, "amount", req.Amount)

	order, err := s.orders.LoadOrder(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}
	payment, err := s.orders.LoadPayment(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}

	originalPspReference, err := s.events.OriginalPspReference(ctx, req.IncrementID)
	if err != nil {
		return nil, fmt.Errorf("load original psp reference: %w", err)
	}

	splitPayments, err := s.orders.LoadSplitPayments(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("load split payments: %w", err)
	}

	instructions, err := allocation.Allocate(allocation.Input{
		RequestedAmount:   req.Amount,
		GrandTotal:        order.GrandTotal,
		OrderCurrency:     order.CurrencyCode,
		BaseCurrency:      order.BaseCurrencyCode,
		CreditMemoTotal:   req.CreditMemoTotal,
		OrderPspReference: originalPspReference,
		SplitPayments:     splitPayments,
		Strategy:          s.config.RefundStrategy(order.StoreID),
	})
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.Outcome, 0, len(instructions))
	for _, ins := range instructions {
		var (
			outcome *domain.Outcome
			serr    error
		)
		switch ins.Operation {
		case domain.OpCancelOrRefund:
			outcome, serr = s.mods.SendCancelOrRefund(ctx, order, payment, ins.PspReference)
		default:
			outcome, serr = s.mods.SendRefund(ctx, order, payment, ins.Amount, ins.PspReference)
		}
		if serr != nil {
			return outcomes, serr
		}
		if outcome.Kind == domain.OutcomeSkipped {
			continue
		}

		if ins.Operation == domain.OpRefund && ins.SplitPaymentID != 0 {
			if uerr := s.orders.UpdateRefundedAmount(ctx, ins.SplitPaymentID, ins.Amount); uerr != nil {
				return outcomes, fmt.Errorf("update refunded amount for split payment %d: %w", ins.SplitPaymentID, uerr)
			}
		}
		outcomes = append(outcomes, *outcome)
	}

	return outcomes, nil
}
