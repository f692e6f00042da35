package config

import (
	"time"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

// StoreConfig carries the store-scoped gateway settings. This service
// runs single-tenant per deployment, so every store resolves to the
// same values; the store id parameter is kept for the multi-store
// setups the host commerce system supports.
type StoreConfig struct {
	MerchantAccount      string `koanf:"merchant_account" validate:"required"`
	RecurringType        string `koanf:"recurring_type"`
	StatusOnAuthorised   string `koanf:"status_on_authorised"`
	RefundStrategy       string `koanf:"refund_strategy"`
	ZeroAuthEnabled      bool   `koanf:"zero_auth_enabled"`
	ZeroAuthValidityDays int    `koanf:"zero_auth_validity_days"`
}

type StoreSettings struct {
	cfg StoreConfig
}

func NewStoreSettings(cfg StoreConfig) *StoreSettings {
	return &StoreSettings{cfg: cfg}
}

func (s *StoreSettings) MerchantAccount(string) string {
	return s.cfg.MerchantAccount
}

func (s *StoreSettings) RecurringType(string) string {
	return s.cfg.RecurringType
}

func (s *StoreSettings) OrderStatusOnAuthorised(string) string {
	return s.cfg.StatusOnAuthorised
}

func (s *StoreSettings) RefundStrategy(string) domain.RefundStrategy {
	return domain.ParseRefundStrategy(s.cfg.RefundStrategy)
}

func (s *StoreSettings) UseZeroAuth(string) bool {
	return s.cfg.ZeroAuthEnabled
}

func (s *StoreSettings) ZeroAuthValidity(string) time.Duration {
	return time.Duration(s.cfg.ZeroAuthValidityDays) * 24 * time.Hour
}
