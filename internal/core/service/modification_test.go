package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modFixture struct {
	gateway  *MockGateway
	orders   *MockOrderRepository
	events   *MockEventLedger
	session  *MockSessionGuard
	cache    *MockCacheInvalidator
	notifier *MockNotifier
	svc      *ModificationService

	order   *domain.Order
	payment *domain.Payment
}

func newModFixture() *modFixture {
	f := &modFixture{
		gateway:  &MockGateway{},
		orders:   NewMockOrderRepository(),
		events:   &MockEventLedger{},
		session:  NewMockSessionGuard(),
		cache:    &MockCacheInvalidator{},
		notifier: &MockNotifier{},
	}
	cfg := StaticStoreConfig{
		Merchant:    "TestMerchant",
		Recurring:   "ONECLICK",
		OrderStatus: "processing",
	}
	f.svc = NewModificationService(f.gateway, f.orders, f.events, f.session, f.cache, f.notifier, cfg, slog.Default())

	f.order = &domain.Order{
		IncrementID:      "100000123",
		StoreID:          "1",
		CustomerID:       "cust-9",
		QuoteID:          "quote-9",
		GrandTotal:       10000,
		CurrencyCode:     "EUR",
		BaseCurrencyCode: "EUR",
	}
	f.payment = &domain.Payment{ID: 7, OrderID: "100000123", Method: "scheme", CcType: "VI"}
	return f
}

func respondWith(code string) func(context.Context, domain.ModificationRequest) (*domain.ModificationResponse, error) {
	return func(_ context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
		return &domain.ModificationResponse{Operation: req.Operation, ResultCode: code, PspReference: "NEW-PSP"}, nil
	}
}

func TestSendCapture_MissingReference_NoOp(t *testing.T) {
	f := newModFixture()

	out, err := f.svc.SendCapture(context.Background(), f.order, f.payment, 500, "")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkipped, out.Kind)
	assert.Empty(t, f.gateway.Calls, "nothing must reach the gateway")
	assert.Empty(t, f.events.Events, "a skipped call classifies nothing")
	assert.Empty(t, f.cache.Removed)
}

func TestSendRefund_AcceptedPending_CommentCarriesBothReferences(t *testing.T) {
	f := newModFixture()
	f.gateway.RefundFn = respondWith(domain.ResultRefundReceived)

	out, err := f.svc.SendRefund(context.Background(), f.order, f.payment, 2500, "ORIGINAL-PSP")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAcceptedPending, out.Kind)

	require.Len(t, f.orders.StatusHistory, 1)
	entry := f.orders.StatusHistory[0]
	assert.Empty(t, entry.Status, "accepted-pending must not transition order status")
	assert.Contains(t, entry.Comment, "NEW-PSP")
	assert.Contains(t, entry.Comment, "ORIGINAL-PSP")

	require.Len(t, f.events.Events, 1)
	assert.Equal(t, domain.ResultRefundReceived, f.events.Events[0].EventCode)
	assert.Equal(t, "NEW-PSP", f.events.Events[0].PspReference)
	assert.Equal(t, "VI", f.events.Events[0].PaymentMethod)
}

func TestSendCapture_Authorised_FinalizedWithStatusTransition(t *testing.T) {
	f := newModFixture()
	f.gateway.CaptureFn = respondWith(domain.ResultAuthorised)

	out, err := f.svc.SendCapture(context.Background(), f.order, f.payment, 10000, "ORIGINAL-PSP")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFinalized, out.Kind)

	require.Len(t, f.orders.StatusHistory, 1)
	assert.Equal(t, "processing", f.orders.StatusHistory[0].Status)
	assert.Zero(t, f.session.Resets)
	require.Len(t, f.events.Events, 1)
}

func TestSendRefund_Refused_RejectedResetsReservedOrderID(t *testing.T) {
	f := newModFixture()
	f.gateway.RefundFn = respondWith(domain.ResultRefused)

	out, err := f.svc.SendRefund(context.Background(), f.order, f.payment, 2500, "ORIGINAL-PSP")

	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodePaymentRefused))
	assert.Equal(t, 1, f.session.Resets)
	assert.Equal(t, []string{"100000123"}, f.notifier.Refused)
	assert.Empty(t, f.orders.StatusHistory, "rejection must not transition order status")

	// Error outcomes still record exactly one event.
	require.Len(t, f.events.Events, 1)
	assert.Equal(t, domain.ResultRefused, f.events.Events[0].EventCode)
}

func TestSendCancel_Error_TransientError(t *testing.T) {
	f := newModFixture()
	f.gateway.CancelFn = respondWith(domain.ResultError)

	_, err := f.svc.SendCancel(context.Background(), f.order, f.payment, "ORIGINAL-PSP")

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTransientError))
	assert.Equal(t, 1, f.session.Resets)
	require.Len(t, f.events.Events, 1)
}

func TestSendCancel_UnrecognizedCode_UnknownOutcome(t *testing.T) {
	f := newModFixture()
	f.gateway.CancelFn = respondWith("SomethingNew")

	_, err := f.svc.SendCancel(context.Background(), f.order, f.payment, "ORIGINAL-PSP")

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnknownResponse))
	assert.Equal(t, 1, f.session.Resets)
	require.Len(t, f.events.Events, 1)
}

func TestSendCapture_NilResponse_UnknownOutcome(t *testing.T) {
	f := newModFixture()
	f.gateway.CaptureFn = func(context.Context, domain.ModificationRequest) (*domain.ModificationResponse, error) {
		return nil, nil
	}

	_, err := f.svc.SendCapture(context.Background(), f.order, f.payment, 100, "ORIGINAL-PSP")

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnknownResponse))
}

func TestSendRefund_TransportFault_PropagatedUnchanged(t *testing.T) {
	f := newModFixture()
	fault := errors.New("gateway unreachable")
	f.gateway.RefundFn = func(context.Context, domain.ModificationRequest) (*domain.ModificationResponse, error) {
		return nil, fault
	}

	_, err := f.svc.SendRefund(context.Background(), f.order, f.payment, 100, "ORIGINAL-PSP")

	require.ErrorIs(t, err, fault)
	assert.Empty(t, f.events.Events, "no classification happened, no event")
	assert.Empty(t, f.cache.Removed, "cache invalidation only follows a gateway round-trip")
	assert.Len(t, f.gateway.Calls, 1, "transport faults are never retried")
}

func TestSendRefund_CacheInvalidatedUnconditionally(t *testing.T) {
	f := newModFixture()

	// Even a refused classification must drop the recurring-details entry.
	f.gateway.RefundFn = respondWith(domain.ResultRefused)
	_, _ = f.svc.SendRefund(context.Background(), f.order, f.payment, 100, "ORIGINAL-PSP")

	require.Len(t, f.cache.Removed, 1)
	assert.Equal(t, "TestMerchant|cust-9|ONECLICK", f.cache.Removed[0])
}

func TestClassify_SameResponseTwice_TwoEvents(t *testing.T) {
	f := newModFixture()
	f.gateway.RefundFn = respondWith(domain.ResultRefundReceived)

	_, err := f.svc.SendRefund(context.Background(), f.order, f.payment, 100, "ORIGINAL-PSP")
	require.NoError(t, err)
	_, err = f.svc.SendRefund(context.Background(), f.order, f.payment, 100, "ORIGINAL-PSP")
	require.NoError(t, err)

	// Duplicate (pspReference, eventCode) pairs are recorded, not
	// rejected; dedup is a downstream read-time concern.
	require.Len(t, f.events.Events, 2)
	assert.Equal(t, f.events.Events[0].PspReference, f.events.Events[1].PspReference)
	assert.Equal(t, f.events.Events[0].EventCode, f.events.Events[1].EventCode)
}

func TestSendCapture_RequestCarriesMerchantAccount(t *testing.T) {
	f := newModFixture()

	_, err := f.svc.SendCapture(context.Background(), f.order, f.payment, 10000, "ORIGINAL-PSP")

	require.NoError(t, err)
	require.Len(t, f.gateway.Calls, 1)
	req := f.gateway.Calls[0]
	assert.Equal(t, "TestMerchant", req.MerchantAccount)
	assert.Equal(t, "ORIGINAL-PSP", req.PspReference)
	assert.Equal(t, int64(10000), req.Amount)
	assert.Equal(t, "EUR", req.Currency)
}
