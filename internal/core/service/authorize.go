package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

// Payment additional-information keys written during authorisation.
const (
	detailPspReference = "pspReference"
	detailFraudScore   = "fraudScore"
	detailPaRequest    = "paRequest"
	detailMD           = "md"
	detailIssuerURL    = "issuerUrl"
	detailPaymentData  = "paymentData"

	detailThreeDS2Type        = "threeDS2Type"
	detailThreeDS2Token       = "threeDS2Token"
	detailThreeDS2PaymentData = "threeDS2PaymentData"

	detailPaymentSlipURL = "paymentSlipUrl"

	// Voucher metadata keys carry this vendor prefix in additionalData.
	voucherPrefix          = "comprafacil"
	voucherDeadlineKey     = "comprafacil.deadline"
	voucherDeadlineDateKey = "comprafacil.deadline_date"
	voucherSlipURLKey      = "boletobancario.url"

	redirect3DS1Path = "payment/process/validate3d"
	redirect3DS2Path = "payment/process/validate3ds2"
)

// defaultZeroAuthValidity is how long an authorisation stays valid for
// most payment methods. Captures scheduled beyond it get a zero-auth.
const defaultZeroAuthValidity = 7 * 24 * time.Hour

// AuthoriseOutcome is the successful result of an authorisation call.
// RedirectPath is non-empty when the shopper must be sent through a
// 3-D-Secure flow before the payment can continue.
type AuthoriseOutcome struct {
	ResultCode   string
	PspReference string
	RedirectPath string
}

// AuthorizeService performs the initial authorisation call and
// classifies its richer, JSON-shaped response.
type AuthorizeService struct {
	gateway  ports.Gateway
	orders   ports.OrderRepository
	events   ports.EventLedger
	session  ports.SessionGuard
	notifier ports.Notifier
	config   ports.StoreConfig
	logger   *slog.Logger
}

func NewAuthorizeService(
	gateway ports.Gateway,
	orders ports.OrderRepository,
	events ports.EventLedger,
	session ports.SessionGuard,
	notifier ports.Notifier,
	config ports.StoreConfig,
	logger *slog.Logger,
) *AuthorizeService {
	return &AuthorizeService{
		gateway:  gateway,
		orders:   orders,
		events:   events,
		session:  session,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
}

// AuthoriseRequest is one authorisation attempt. ScheduledCaptureAt is
// the planned capture date for deferred-capture orders, when known.
type AuthoriseRequest struct {
	IncrementID        string
	ScheduledCaptureAt *time.Time
}

func (s *AuthorizeService) Authorize(ctx context.Context, req AuthoriseRequest) (*AuthoriseOutcome, error) {
	order, err := s.orders.LoadOrder(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}
	payment, err := s.orders.LoadPayment(ctx, req.IncrementID)
	if err != nil {
		return nil, err
	}

	amount := order.GrandTotal
	if s.useZeroAuth(order, req.ScheduledCaptureAt) {
		amount = 0
	}

	// Reserve the order id for this quote so a payment-failed
	// notification does not interfere with new successful orders.
	if rerr := s.session.ReserveOrderID(ctx, order.QuoteID, order.IncrementID); rerr != nil {
		return nil, fmt.Errorf("reserve order id: %w", rerr)
	}

	s.logger.Info("sending authorisation request",
		"increment_id", order.IncrementID,
		"amount", amount,
		"method", payment.Method,
	)

	resp, err := s.gateway.Authorise(ctx, ports.AuthorisationRequest{
		Amount:           amount,
		Currency:         order.CurrencyCode,
		Reference:        order.IncrementID,
		MerchantAccount:  s.config.MerchantAccount(order.StoreID),
		ShopperReference: order.CustomerID,
		RecurringType:    s.config.RecurringType(order.StoreID),
		PaymentMethod:    payment.Method,
	})
	if err != nil {
		s.logger.Error("gateway transport fault", "increment_id", order.IncrementID, "error", err)
		return nil, err
	}

	return s.classify(ctx, order, payment, resp)
}

// useZeroAuth reports whether this order should be validated with a
// zero-amount authorisation: captures scheduled past the authorisation
// validity window would otherwise expire before capture.
func (s *AuthorizeService) useZeroAuth(order *domain.Order, scheduledCaptureAt *time.Time) bool {
	if !s.config.UseZeroAuth(order.StoreID) || scheduledCaptureAt == nil {
		return false
	}
	validity := s.config.ZeroAuthValidity(order.StoreID)
	if validity <= 0 {
		validity = defaultZeroAuthValidity
	}
	return scheduledCaptureAt.After(time.Now().Add(validity))
}

func (s *AuthorizeService) classify(ctx context.Context, order *domain.Order, payment *domain.Payment, resp *domain.AuthorisationResponse) (*AuthoriseOutcome, error) {
	var resultCode, pspReference string
	if resp != nil {
		resultCode = resp.ResultCode
		pspReference = resp.PspReference
	}

	// Save the psp reference up front to match with later notifications.
	if pspReference != "" {
		s.setDetail(ctx, payment.ID, detailPspReference, pspReference)
	}
	if resp != nil && resp.FraudScore != nil {
		s.setDetail(ctx, payment.ID, detailFraudScore, strconv.Itoa(*resp.FraudScore))
	}

	var (
		outcome *AuthoriseOutcome
		derr    error
	)

	switch resultCode {
	case domain.ResultRedirectShopper:
		outcome, derr = s.handleRedirectShopper(ctx, order, payment, resp)

	case domain.ResultIdentifyShopper, domain.ResultChallengeShopper:
		outcome = s.handleThreeDS2(ctx, order, payment, resp)

	case domain.ResultCancelled, domain.ResultRefused:
		s.resetReservedOrderID(ctx, order)
		if nerr := s.notifier.PaymentRefused(ctx, order.IncrementID, pspReference); nerr != nil {
			s.logger.Warn("refused notification publish failed", "increment_id", order.IncrementID, "error", nerr)
		}
		derr = domain.NewPaymentRefusedError()

	case domain.ResultAuthorised:
		comment := statusHistoryComment(resultCode, pspReference, "")
		status := s.config.OrderStatusOnAuthorised(order.StoreID)
		if herr := s.orders.AppendStatusHistory(ctx, order.IncrementID, comment, status); herr != nil {
			derr = fmt.Errorf("append status history: %w", herr)
		} else {
			outcome = &AuthoriseOutcome{ResultCode: resultCode, PspReference: pspReference}
		}

	case domain.ResultReceived, domain.ResultPresentToShopper:
		outcome, derr = s.handleVoucher(ctx, order, payment, resp)

	case domain.ResultError:
		s.resetReservedOrderID(ctx, order)
		derr = domain.NewTransientError()

	default:
		s.resetReservedOrderID(ctx, order)
		s.logger.Warn("unknown result code from gateway", "result_code", resultCode)
		derr = domain.NewUnknownResponseError()
	}

	s.recordEvent(ctx, pspReference, resultCode, order.IncrementID, payment.CcType)
	return outcome, derr
}

// handleRedirectShopper validates and stores the 3-D-Secure v1 challenge
// fields. All four are required before any redirect is signaled.
func (s *AuthorizeService) handleRedirectShopper(ctx context.Context, order *domain.Order, payment *domain.Payment, resp *domain.AuthorisationResponse) (*AuthoriseOutcome, error) {
	if resp.Redirect == nil ||
		resp.Redirect.PaReq == "" ||
		resp.Redirect.MD == "" ||
		resp.Redirect.URL == "" ||
		resp.PaymentData == "" {
		return nil, domain.NewInvalidRedirectError()
	}

	s.setDetail(ctx, payment.ID, detailPaRequest, resp.Redirect.PaReq)
	s.setDetail(ctx, payment.ID, detailMD, resp.Redirect.MD)
	s.setDetail(ctx, payment.ID, detailIssuerURL, resp.Redirect.URL)
	s.setDetail(ctx, payment.ID, detailPaymentData, resp.PaymentData)

	if rerr := s.session.SetRedirectPath(ctx, order.QuoteID, redirect3DS1Path); rerr != nil {
		s.logger.Warn("redirect signal failed", "quote_id", order.QuoteID, "error", rerr)
	}

	comment := statusHistoryComment(resp.ResultCode, resp.PspReference, "")
	status := s.config.OrderStatusOnAuthorised(order.StoreID)
	if herr := s.orders.AppendStatusHistory(ctx, order.IncrementID, comment, status); herr != nil {
		return nil, fmt.Errorf("append status history: %w", herr)
	}

	return &AuthoriseOutcome{
		ResultCode:   resp.ResultCode,
		PspReference: resp.PspReference,
		RedirectPath: redirect3DS1Path,
	}, nil
}

// handleThreeDS2 stores the device fingerprint or challenge token when
// present and signals the v2 redirect either way.
func (s *AuthorizeService) handleThreeDS2(ctx context.Context, order *domain.Order, payment *domain.Payment, resp *domain.AuthorisationResponse) *AuthoriseOutcome {
	token := resp.FingerprintToken
	if resp.ResultCode == domain.ResultChallengeShopper {
		token = resp.ChallengeToken
	}

	if token != "" && resp.PaymentData != "" {
		s.setDetail(ctx, payment.ID, detailThreeDS2Type, resp.ResultCode)
		s.setDetail(ctx, payment.ID, detailThreeDS2Token, token)
		s.setDetail(ctx, payment.ID, detailThreeDS2PaymentData, resp.PaymentData)
	}

	if rerr := s.session.SetRedirectPath(ctx, order.QuoteID, redirect3DS2Path); rerr != nil {
		s.logger.Warn("redirect signal failed", "quote_id", order.QuoteID, "error", rerr)
	}

	return &AuthoriseOutcome{
		ResultCode:   resp.ResultCode,
		PspReference: resp.PspReference,
		RedirectPath: redirect3DS2Path,
	}
}

// handleVoucher extracts the payment-slip URL and voucher metadata for
// voucher-style methods, and computes the payment deadline date.
func (s *AuthorizeService) handleVoucher(ctx context.Context, order *domain.Order, payment *domain.Payment, resp *domain.AuthorisationResponse) (*AuthoriseOutcome, error) {
	if url := resp.OutputDetails[voucherSlipURLKey]; url != "" {
		s.setDetail(ctx, payment.ID, detailPaymentSlipURL, url)
	}

	for key, value := range resp.AdditionalData {
		if !strings.Contains(key, voucherPrefix) {
			continue
		}
		s.setDetail(ctx, payment.ID, key, value)

		if key == voucherDeadlineKey {
			deadline := voucherDeadline(order.CreatedAt, value)
			s.setDetail(ctx, payment.ID, voucherDeadlineDateKey, deadline.Format("2006-01-02"))
		}
	}

	comment := statusHistoryComment(resp.ResultCode, resp.PspReference, "")
	if herr := s.orders.AppendStatusHistory(ctx, order.IncrementID, comment, ""); herr != nil {
		return nil, fmt.Errorf("append status history: %w", herr)
	}

	return &AuthoriseOutcome{ResultCode: resp.ResultCode, PspReference: resp.PspReference}, nil
}

// voucherDeadline adds the configured day offset to the order creation
// date. A zero or unparseable offset leaves the creation date unchanged.
func voucherDeadline(createdAt time.Time, offset string) time.Time {
	days, err := strconv.Atoi(offset)
	if err != nil || days <= 0 {
		return createdAt
	}
	return createdAt.AddDate(0, 0, days)
}

func (s *AuthorizeService) resetReservedOrderID(ctx context.Context, order *domain.Order) {
	if err := s.session.ResetReservedOrderID(ctx, order.QuoteID); err != nil {
		s.logger.Warn("reserved order id reset failed", "quote_id", order.QuoteID, "error", err)
	}
}

func (s *AuthorizeService) setDetail(ctx context.Context, paymentID int64, key, value string) {
	if err := s.orders.SetPaymentDetail(ctx, paymentID, key, value); err != nil {
		s.logger.Warn("payment detail write failed", "payment_id", paymentID, "key", key, "error", err)
	}
}

func (s *AuthorizeService) recordEvent(ctx context.Context, pspReference, eventCode, incrementID, paymentMethod string) {
	event := domain.Event{
		ID:            uuid.New(),
		PspReference:  pspReference,
		EventCode:     eventCode,
		EventResult:   eventCode,
		IncrementID:   incrementID,
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Error("event ledger append failed",
			"psp_reference", pspReference,
			"event_code", eventCode,
			"increment_id", incrementID,
			"error", err,
		)
	}
}
