package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// CaptureService converts an authorisation into a collected charge.
type CaptureService struct {
	mods   *ModificationService
	orders ports.OrderRepository
	events ports.EventLedger
	logger *slog.Logger
}

func NewCaptureService(mods *ModificationService, orders ports.OrderRepository, events ports.EventLedger, logger *slog.Logger) *CaptureService {
	return &CaptureService{
		mods:   mods,
		orders: orders,
		events: events,
		logger: logger,
	}
}

// CaptureRequest is one capture attempt against an order. InvoiceTotal
// is the grand total of the invoice being captured, when one exists; for
// orders placed in a currency other than the base currency it overrides
// the nominal amount.
type CaptureRequest struct {
	IncrementID  string
	Amount       int64
	InvoiceTotal *int64
}

func (s *CaptureService) Capture(ctx context.Context, req CaptureRequest) (*domain.Outcome, error) {
	s.logger.Info("capture requested", "increment_id", req.IncrementID, "amount", req.Amount)

	order, err := s.orders.LoadOrder(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}
	payment, err := s.orders.LoadPayment(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if req.InvoiceTotal != nil && order.CurrencyCode != order.BaseCurrencyCode {
		amount = *req.InvoiceTotal
	}

	pspReference, err := s.events.OriginalPspReference(ctx, req.IncrementID)
	if err != nil {
		return nil, fmt.Errorf("load original psp reference: %w", err)
	}

	return s.mods.SendCapture(ctx, order, payment, amount, pspReference)
}
