package service

import (
	"context"
	"sync"
	"time"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// MockGateway
type MockGateway struct {
	mu    sync.Mutex
	Calls []domain.ModificationRequest

	CaptureFn        func(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	RefundFn         func(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	CancelFn         func(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	CancelOrRefundFn func(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	AuthoriseFn      func(ctx context.Context, req ports.AuthorisationRequest) (*domain.AuthorisationResponse, error)
	DisableFn        func(ctx context.Context, recurringReference, shopperReference, merchantAccount string) error

	AuthoriseCalls []ports.AuthorisationRequest
	DisableCalls   []string
}

func (m *MockGateway) record(req domain.ModificationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
}

func accepted(op domain.Operation) *domain.ModificationResponse {
	code := map[domain.Operation]string{
		domain.OpCapture:        domain.ResultCaptureReceived,
		domain.OpRefund:         domain.ResultRefundReceived,
		domain.OpCancel:         domain.ResultCancelReceived,
		domain.OpCancelOrRefund: domain.ResultCancelOrRefundReceived,
	}[op]
	return &domain.ModificationResponse{Operation: op, ResultCode: code, PspReference: "MOD-PSP-1"}
}

func (m *MockGateway) Capture(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	m.record(req)
	if m.CaptureFn != nil {
		return m.CaptureFn(ctx, req)
	}
	return accepted(domain.OpCapture), nil
}

func (m *MockGateway) Refund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	m.record(req)
	if m.RefundFn != nil {
		return m.RefundFn(ctx, req)
	}
	return accepted(domain.OpRefund), nil
}

func (m *MockGateway) Cancel(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	m.record(req)
	if m.CancelFn != nil {
		return m.CancelFn(ctx, req)
	}
	return accepted(domain.OpCancel), nil
}

func (m *MockGateway) CancelOrRefund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	m.record(req)
	if m.CancelOrRefundFn != nil {
		return m.CancelOrRefundFn(ctx, req)
	}
	return accepted(domain.OpCancelOrRefund), nil
}

func (m *MockGateway) Authorise(ctx context.Context, req ports.AuthorisationRequest) (*domain.AuthorisationResponse, error) {
	m.mu.Lock()
	m.AuthoriseCalls = append(m.AuthoriseCalls, req)
	m.mu.Unlock()
	if m.AuthoriseFn != nil {
		return m.AuthoriseFn(ctx, req)
	}
	return &domain.AuthorisationResponse{ResultCode: domain.ResultAuthorised, PspReference: "AUTH-PSP-1"}, nil
}

func (m *MockGateway) DisableRecurringContract(ctx context.Context, recurringReference, shopperReference, merchantAccount string) error {
	m.mu.Lock()
	m.DisableCalls = append(m.DisableCalls, recurringReference)
	m.mu.Unlock()
	if m.DisableFn != nil {
		return m.DisableFn(ctx, recurringReference, shopperReference, merchantAccount)
	}
	return nil
}

// MockOrderRepository
type MockOrderRepository struct {
	mu sync.Mutex

	Orders        map[string]*domain.Order
	Payments      map[string]*domain.Payment
	SplitPayments map[int64][]domain.SplitPayment

	StatusHistory  []StatusHistoryEntry
	RefundUpdates  []RefundUpdate
	PaymentDetails map[string]string

	AppendStatusHistoryFn func(ctx context.Context, incrementID, comment, status string) error
}

type StatusHistoryEntry struct {
	IncrementID string
	Comment     string
	Status      string
}

type RefundUpdate struct {
	SplitPaymentID int64
	Amount         int64
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders:         make(map[string]*domain.Order),
		Payments:       make(map[string]*domain.Payment),
		SplitPayments:  make(map[int64][]domain.SplitPayment),
		PaymentDetails: make(map[string]string),
	}
}

func (m *MockOrderRepository) LoadOrder(ctx context.Context, incrementID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.Orders[incrementID]; ok {
		return o, nil
	}
	return nil, domain.NewOrderNotFoundError(incrementID)
}

func (m *MockOrderRepository) LoadPayment(ctx context.Context, incrementID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Payments[incrementID]; ok {
		return p, nil
	}
	return nil, domain.NewOrderNotFoundError(incrementID)
}

func (m *MockOrderRepository) LoadSplitPayments(ctx context.Context, paymentID int64) ([]domain.SplitPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SplitPayments[paymentID], nil
}

func (m *MockOrderRepository) AppendStatusHistory(ctx context.Context, incrementID, comment, status string) error {
	if m.AppendStatusHistoryFn != nil {
		return m.AppendStatusHistoryFn(ctx, incrementID, comment, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusHistory = append(m.StatusHistory, StatusHistoryEntry{incrementID, comment, status})
	return nil
}

func (m *MockOrderRepository) UpdateRefundedAmount(ctx context.Context, splitPaymentID int64, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefundUpdates = append(m.RefundUpdates, RefundUpdate{splitPaymentID, amount})
	return nil
}

func (m *MockOrderRepository) SetPaymentDetail(ctx context.Context, paymentID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentDetails[key] = value
	return nil
}

// MockEventLedger
type MockEventLedger struct {
	mu       sync.Mutex
	Events   []domain.Event
	Original string

	RecordFn func(ctx context.Context, event domain.Event) error
}

func (m *MockEventLedger) Record(ctx context.Context, event domain.Event) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockEventLedger) OriginalPspReference(ctx context.Context, incrementID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Original, nil
}

// MockSessionGuard
type MockSessionGuard struct {
	mu            sync.Mutex
	Reserved      map[string]string
	Resets        int
	RedirectPaths map[string]string
}

func NewMockSessionGuard() *MockSessionGuard {
	return &MockSessionGuard{
		Reserved:      make(map[string]string),
		RedirectPaths: make(map[string]string),
	}
}

func (m *MockSessionGuard) ReserveOrderID(ctx context.Context, quoteID, incrementID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reserved[quoteID] = incrementID
	return nil
}

func (m *MockSessionGuard) ResetReservedOrderID(ctx context.Context, quoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Reserved, quoteID)
	m.Resets++
	return nil
}

func (m *MockSessionGuard) SetRedirectPath(ctx context.Context, quoteID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RedirectPaths[quoteID] = path
	return nil
}

// MockCacheInvalidator
type MockCacheInvalidator struct {
	mu      sync.Mutex
	Removed []string
}

func (m *MockCacheInvalidator) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, key)
	return nil
}

// MockNotifier
type MockNotifier struct {
	mu      sync.Mutex
	Refused []string
}

func (m *MockNotifier) PaymentRefused(ctx context.Context, incrementID, pspReference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refused = append(m.Refused, incrementID)
	return nil
}

// StaticStoreConfig serves the same settings for every store.
type StaticStoreConfig struct {
	Merchant       string
	Recurring      string
	OrderStatus    string
	Strategy       domain.RefundStrategy
	ZeroAuth       bool
	ZeroAuthWindow time.Duration
}

func (c StaticStoreConfig) MerchantAccount(string) string               { return c.Merchant }
func (c StaticStoreConfig) RecurringType(string) string                 { return c.Recurring }
func (c StaticStoreConfig) OrderStatusOnAuthorised(string) string       { return c.OrderStatus }
func (c StaticStoreConfig) RefundStrategy(string) domain.RefundStrategy { return c.Strategy }
func (c StaticStoreConfig) UseZeroAuth(string) bool                     { return c.ZeroAuth }
func (c StaticStoreConfig) ZeroAuthValidity(string) time.Duration       { return c.ZeroAuthWindow }
