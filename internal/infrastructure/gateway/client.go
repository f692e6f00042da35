// Package gateway implements the HTTP client for the payment service's
// modification and authorisation API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/config"
	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/ports"
)

const (
	testPaymentURL   = "https://pal-test.payrail.io/pal/servlet/Payment/v64"
	livePaymentURL   = "https://pal-live.payrail.io/pal/servlet/Payment/v64"
	testRecurringURL = "https://pal-test.payrail.io/pal/servlet/Recurring/v25"
	liveRecurringURL = "https://pal-live.payrail.io/pal/servlet/Recurring/v25"
)

type Client struct {
	paymentURL   string
	recurringURL string
	username     string
	password     string
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewClient(cfg config.GatewayConfig, logger *slog.Logger) *Client {
	paymentURL, recurringURL := livePaymentURL, liveRecurringURL
	if cfg.DemoMode {
		paymentURL, recurringURL = testPaymentURL, testRecurringURL
	}
	if cfg.BaseURL != "" {
		paymentURL = cfg.BaseURL + "/Payment"
		recurringURL = cfg.BaseURL + "/Recurring"
	}

	return &Client{
		paymentURL:   paymentURL,
		recurringURL: recurringURL,
		username:     cfg.Username,
		password:     cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) Capture(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	return c.modify(ctx, "capture", req)
}

func (c *Client) Refund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	return c.modify(ctx, "refund", req)
}

func (c *Client) Cancel(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	return c.modify(ctx, "cancel", req)
}

func (c *Client) CancelOrRefund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	return c.modify(ctx, "cancelOrRefund", req)
}

func (c *Client) modify(ctx context.Context, endpoint string, req domain.ModificationRequest) (*domain.ModificationResponse, error) {
	body := modificationDTO{
		MerchantAccount:   req.MerchantAccount,
		OriginalReference: req.PspReference,
	}
	// Cancel and cancel-or-refund carry no amount.
	if req.Operation == domain.OpCapture || req.Operation == domain.OpRefund {
		body.ModificationAmount = &amountDTO{Currency: req.Currency, Value: req.Amount}
	}

	url := fmt.Sprintf("%s/%s", c.paymentURL, endpoint)
	envelope, err := send[modificationDTO, modificationEnvelopeDTO](c, ctx, url, &body)
	if err != nil {
		return nil, err
	}

	result := envelope.resultFor(req.Operation)
	if result == nil {
		// Not the expected structured type; the classifier treats an
		// empty result code as an unknown outcome.
		return &domain.ModificationResponse{Operation: req.Operation}, nil
	}
	return &domain.ModificationResponse{
		Operation:    req.Operation,
		ResultCode:   result.Response,
		PspReference: result.PspReference,
	}, nil
}

func (e *modificationEnvelopeDTO) resultFor(op domain.Operation) *modificationResultDTO {
	switch op {
	case domain.OpCapture:
		return e.CaptureResult
	case domain.OpRefund:
		return e.RefundResult
	case domain.OpCancel:
		return e.CancelResult
	case domain.OpCancelOrRefund:
		return e.CancelOrRefundResult
	default:
		return nil
	}
}

func (c *Client) Authorise(ctx context.Context, req ports.AuthorisationRequest) (*domain.AuthorisationResponse, error) {
	body := authoriseDTO{
		Amount:           amountDTO{Currency: req.Currency, Value: req.Amount},
		Reference:        req.Reference,
		MerchantAccount:  req.MerchantAccount,
		ShopperReference: req.ShopperReference,
		RecurringType:    req.RecurringType,
		PaymentMethod:    req.PaymentMethod,
	}

	url := fmt.Sprintf("%s/authorise", c.paymentURL)
	result, err := send[authoriseDTO, authoriseResultDTO](c, ctx, url, &body)
	if err != nil {
		return nil, err
	}

	resp := &domain.AuthorisationResponse{
		ResultCode:     result.ResultCode,
		PspReference:   result.PspReference,
		PaymentData:    result.PaymentData,
		AdditionalData: result.AdditionalData,
		OutputDetails:  result.OutputDetails,
	}
	if result.Redirect != nil {
		resp.Redirect = &domain.Redirect{
			PaReq: result.Redirect.Data.PaReq,
			MD:    result.Redirect.Data.MD,
			URL:   result.Redirect.URL,
		}
	}
	if result.Authentication != nil {
		resp.FingerprintToken = result.Authentication.FingerprintToken
		resp.ChallengeToken = result.Authentication.ChallengeToken
	}
	if result.FraudResult != nil {
		resp.FraudScore = result.FraudResult.AccountScore
	}
	return resp, nil
}

func (c *Client) DisableRecurringContract(ctx context.Context, recurringReference, shopperReference, merchantAccount string) error {
	body := disableDTO{
		MerchantAccount:          merchantAccount,
		ShopperReference:         shopperReference,
		RecurringDetailReference: recurringReference,
	}

	url := fmt.Sprintf("%s/disable", c.recurringURL)
	result, err := send[disableDTO, disableResultDTO](c, ctx, url, &body)
	if err != nil {
		return err
	}
	if result.Response != "[detail-successfully-disabled]" {
		return fmt.Errorf("unexpected disable response %q", result.Response)
	}
	return nil
}

func send[Req any, Resp any](c *Client, ctx context.Context, url string, reqBody *Req) (*Resp, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	c.logger.Debug("gateway request", "url", url, "body", obscure(jsonData))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Code: "connection_failed", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Code: "read_failed", Message: err.Error(), StatusCode: resp.StatusCode}
	}

	c.logger.Debug("gateway response", "url", url, "status", resp.StatusCode, "body", obscure(respBody))

	if resp.StatusCode != http.StatusOK {
		var fault errorResponse
		if err := json.Unmarshal(respBody, &fault); err != nil {
			return nil, &TransportError{
				Code:       "protocol_error",
				Message:    string(respBody),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &TransportError{
			Code:       fault.ErrorCode,
			Message:    fault.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var out Resp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	return &out, nil
}
