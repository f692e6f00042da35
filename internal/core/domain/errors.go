package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodePaymentRefused   = "PAYMENT_REFUSED"
	ErrCodeTransientError   = "TRANSIENT_ERROR"
	ErrCodeUnknownResponse  = "UNKNOWN_RESPONSE"
	ErrCodeInvalidRedirect  = "INVALID_REDIRECT"
	ErrCodeDataIntegrity    = "DATA_INTEGRITY"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeInvalidAmount    = "INVALID_AMOUNT"
	ErrCodeRecurringDisable = "RECURRING_DISABLE_FAILED"
)

// IsErrorCode reports whether err wraps a DomainError with the given code.
func IsErrorCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

func NewPaymentRefusedError() *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentRefused,
		Message: "the payment is REFUSED",
	}
}

func NewTransientError() *DomainError {
	return &DomainError{
		Code:    ErrCodeTransientError,
		Message: "system error, please try again later",
	}
}

func NewUnknownResponseError() *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownResponse,
		Message: "unknown data from gateway",
	}
}

func NewInvalidRedirectError() *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidRedirect,
		Message: "3D secure is not valid",
	}
}

func NewDataIntegrityError(detail string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDataIntegrity,
		Message: fmt.Sprintf("split payment ledger is inconsistent: %s", detail),
	}
}

func NewOrderNotFoundError(incrementID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("order %s not found", incrementID),
	}
}

func NewInvalidAmountError(amount int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount: %d", amount),
	}
}

func NewRecurringDisableError(reference string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeRecurringDisable,
		Message: fmt.Sprintf("error while disabling billing agreement %s", reference),
		Err:     err,
	}
}
