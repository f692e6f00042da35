package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// CancelService voids an authorised, not yet captured order. When the
// order was paid with a tokenized recurring contract the contract is
// disabled as part of cancellation.
type CancelService struct {
	mods    *ModificationService
	gateway ports.Gateway
	orders  ports.OrderRepository
	events  ports.EventLedger
	config  ports.StoreConfig
	logger  *slog.Logger
}

func NewCancelService(mods *ModificationService, gateway ports.Gateway, orders ports.OrderRepository, events ports.EventLedger, config ports.StoreConfig, logger *slog.Logger) *CancelService {
	return &CancelService{
		mods:    mods,
		gateway: gateway,
		orders:  orders,
		events:  events,
		config:  config,
		logger:  logger,
	}
}

func (s *CancelService) Cancel(ctx context.Context, incrementID string) (*domain.Outcome, error) {
	s.logger.Info("cancel requested", "increment_id", incrementID)

	order, err := s.orders.LoadOrder(ctx, incrementID)
	if err != nil {
		return nil, err
	}
	payment, err := s.orders.LoadPayment(ctx, incrementID)
	if err != nil {
		return nil, err
	}

	pspReference, err := s.events.OriginalPspReference(ctx, incrementID)
	if err != nil {
		return nil, fmt.Errorf("load original psp reference: %w", err)
	}

	outcome, err := s.mods.SendCancel(ctx, order, payment, pspReference)
	if err != nil {
		return nil, err
	}

	if payment.RecurringReference != "" {
		merchantAccount := s.config.MerchantAccount(order.StoreID)
		if derr := s.gateway.DisableRecurringContract(ctx, payment.RecurringReference, order.CustomerID, merchantAccount); derr != nil {
			return outcome, domain.NewRecurringDisableError(payment.RecurringReference, derr)
		}
		s.logger.Info("recurring contract disabled",
			"increment_id", incrementID,
			"recurring_reference", payment.RecurringReference,
		)
	}

	return outcome, nil
}
