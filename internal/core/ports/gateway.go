package ports

import (
	"context"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

// AuthorisationRequest carries what the gateway needs for the initial
// authorisation call. Card and shopper details stay with the host
// commerce system; only the references travel through this core.
type AuthorisationRequest struct {
	Amount           int64
	Currency         string
	Reference        string
	MerchantAccount  string
	ShopperReference string
	RecurringType    string
	PaymentMethod    string
}

// Gateway defines the behavior of the external payment service. A
// transport-level failure is returned as an error carrying the fault
// code and message; this core only logs and propagates it.
type Gateway interface {
	Capture(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	Refund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	Cancel(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)
	CancelOrRefund(ctx context.Context, req domain.ModificationRequest) (*domain.ModificationResponse, error)

	Authorise(ctx context.Context, req AuthorisationRequest) (*domain.AuthorisationResponse, error)

	// DisableRecurringContract revokes a tokenized recurring contract.
	// Used once, during cancellation of orders paid with a stored method.
	DisableRecurringContract(ctx context.Context, recurringReference, shopperReference, merchantAccount string) error
}
