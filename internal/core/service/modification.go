// Package service orchestrates post-authorisation money movement against
// the payment gateway and classifies gateway replies into durable
// order/event state.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// ModificationService dispatches a single capture, refund, cancel or
// cancel-or-refund instruction to the gateway and classifies the reply.
// It never retries: a transport fault is logged and propagated unchanged.
type ModificationService struct {
	gateway  ports.Gateway
	orders   ports.OrderRepository
	events   ports.EventLedger
	session  ports.SessionGuard
	cache    ports.CacheInvalidator
	notifier ports.Notifier
	config   ports.StoreConfig
	logger   *slog.Logger
}

func NewModificationService(
	gateway ports.Gateway,
	orders ports.OrderRepository,
	events ports.EventLedger,
	session ports.SessionGuard,
	cache ports.CacheInvalidator,
	notifier ports.Notifier,
	config ports.StoreConfig,
	logger *slog.Logger,
) *ModificationService {
	return &ModificationService{
		gateway:  gateway,
		orders:   orders,
		events:   events,
		session:  session,
		cache:    cache,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
}

func (m *ModificationService) SendCapture(ctx context.Context, order *domain.Order, payment *domain.Payment, amount int64, pspReference string) (*domain.Outcome, error) {
	return m.process(ctx, domain.OpCapture, order, payment, amount, pspReference)
}

func (m *ModificationService) SendRefund(ctx context.Context, order *domain.Order, payment *domain.Payment, amount int64, pspReference string) (*domain.Outcome, error) {
	return m.process(ctx, domain.OpRefund, order, payment, amount, pspReference)
}

func (m *ModificationService) SendCancel(ctx context.Context, order *domain.Order, payment *domain.Payment, pspReference string) (*domain.Outcome, error) {
	return m.process(ctx, domain.OpCancel, order, payment, 0, pspReference)
}

func (m *ModificationService) SendCancelOrRefund(ctx context.Context, order *domain.Order, payment *domain.Payment, pspReference string) (*domain.Outcome, error) {
	return m.process(ctx, domain.OpCancelOrRefund, order, payment, 0, pspReference)
}

func (m *ModificationService) process(ctx context.Context, op domain.Operation, order *domain.Order, payment *domain.Payment, amount int64, pspReference string) (*domain.Outcome, error) {
	if pspReference == "" {
		m.logger.Warn("missing psp reference, skipping modification",
			"operation", op,
			"increment_id", order.IncrementID,
		)
		return &domain.Outcome{Kind: domain.OutcomeSkipped}, nil
	}

	merchantAccount := m.config.MerchantAccount(order.StoreID)
	recurringType := m.config.RecurringType(order.StoreID)

	req := domain.ModificationRequest{
		Operation:       op,
		Amount:          amount,
		Currency:        order.CurrencyCode,
		PspReference:    pspReference,
		MerchantAccount: merchantAccount,
	}

	m.logger.Info("sending modification request",
		"operation", op,
		"psp_reference", pspReference,
		"amount", amount,
		"increment_id", order.IncrementID,
	)

	resp, err := m.sendToGateway(ctx, op, req)
	if err != nil {
		m.logger.Error("gateway transport fault",
			"operation", op,
			"psp_reference", pspReference,
			"error", err,
		)
		return nil, err
	}

	// A modification may have changed the shopper's stored-card set, so
	// the recurring-details cache entry is dropped regardless of how the
	// response classifies.
	defer func() {
		key := fmt.Sprintf("%s|%s|%s", merchantAccount, order.CustomerID, recurringType)
		if cerr := m.cache.Remove(ctx, key); cerr != nil {
			m.logger.Warn("recurring details cache invalidation failed", "key", key, "error", cerr)
		}
	}()

	return m.classify(ctx, order, payment, resp, pspReference)
}

func (m *ModificationService) sendToGateway(ctx context.Context, op domain.Operation, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	switch op {
	case domain.OpCapture:
		return m.gateway.Capture(ctx, req)
	case domain.OpRefund:
		return m.gateway.Refund(ctx, req)
	case domain.OpCancel:
		return m.gateway.Cancel(ctx, req)
	case domain.OpCancelOrRefund:
		return m.gateway.CancelOrRefund(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported modification operation %q", op)
	}
}

// classify maps the operation-tagged response onto an outcome and drives
// the side effects for it. Every classified response, including error
// outcomes, results in exactly one recorded event; the event write is
// the last action before returning.
func (m *ModificationService) classify(ctx context.Context, order *domain.Order, payment *domain.Payment, resp *domain.ModificationResponse, originalPspReference string) (*domain.Outcome, error) {
	var resultCode, pspReference string
	if resp != nil {
		resultCode = resp.ResultCode
		pspReference = resp.PspReference
	}

	var (
		outcome *domain.Outcome
		derr    error
	)

	switch resultCode {
	case domain.ResultCancelled, domain.ResultRefused:
		m.resetReservedOrderID(ctx, order)
		if nerr := m.notifier.PaymentRefused(ctx, order.IncrementID, pspReference); nerr != nil {
			m.logger.Warn("refused notification publish failed", "increment_id", order.IncrementID, "error", nerr)
		}
		derr = domain.NewPaymentRefusedError()

	case domain.ResultAuthorised:
		comment := statusHistoryComment(resultCode, pspReference, "")
		status := m.config.OrderStatusOnAuthorised(order.StoreID)
		if herr := m.orders.AppendStatusHistory(ctx, order.IncrementID, comment, status); herr != nil {
			derr = fmt.Errorf("append status history: %w", herr)
		} else {
			outcome = &domain.Outcome{Kind: domain.OutcomeFinalized, ResultCode: resultCode, PspReference: pspReference}
		}

	case domain.ResultCaptureReceived,
		domain.ResultRefundReceived,
		domain.ResultCancelReceived,
		domain.ResultCancelOrRefundReceived:
		// Carry the pre-allocation psp reference for traceability across
		// split-payment fan-out. No status transition.
		comment := statusHistoryComment(resultCode, pspReference, originalPspReference)
		if herr := m.orders.AppendStatusHistory(ctx, order.IncrementID, comment, ""); herr != nil {
			derr = fmt.Errorf("append status history: %w", herr)
		} else {
			outcome = &domain.Outcome{Kind: domain.OutcomeAcceptedPending, ResultCode: resultCode, PspReference: pspReference}
		}

	case domain.ResultError:
		m.resetReservedOrderID(ctx, order)
		derr = domain.NewTransientError()

	default:
		m.resetReservedOrderID(ctx, order)
		m.logger.Warn("unknown result code from gateway", "result_code", resultCode)
		derr = domain.NewUnknownResponseError()
	}

	m.recordEvent(ctx, pspReference, resultCode, order.IncrementID, payment.CcType)
	return outcome, derr
}

func (m *ModificationService) resetReservedOrderID(ctx context.Context, order *domain.Order) {
	if err := m.session.ResetReservedOrderID(ctx, order.QuoteID); err != nil {
		m.logger.Warn("reserved order id reset failed", "quote_id", order.QuoteID, "error", err)
	}
}

// recordEvent appends the classified response to the event ledger.
// Duplicate (pspReference, eventCode) pairs are not rejected here; the
// downstream notification handler owns duplicate detection.
func (m *ModificationService) recordEvent(ctx context.Context, pspReference, eventCode, incrementID, paymentMethod string) {
	event := domain.Event{
		ID:            uuid.New(),
		PspReference:  pspReference,
		EventCode:     eventCode,
		EventResult:   eventCode,
		IncrementID:   incrementID,
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if err := m.events.Record(ctx, event); err != nil {
		m.logger.Error("event ledger append failed",
			"psp_reference", pspReference,
			"event_code", eventCode,
			"increment_id", incrementID,
			"error", err,
		)
	}
}

func statusHistoryComment(resultCode, pspReference, originalPspReference string) string {
	comment := fmt.Sprintf("Gateway result notification: authResult: %s pspReference: %s", resultCode, pspReference)
	if originalPspReference != "" {
		comment += fmt.Sprintf(" originalPspReference: %s", originalPspReference)
	}
	return comment
}
