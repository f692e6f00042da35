package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/gateway"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps domain errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    toErrorCode(err),
			Message: err.Error(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(toHTTPStatus(err))
	json.NewEncoder(w).Encode(response)
}

func toErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	if gateway.IsTransportError(err) {
		return "GATEWAY_UNAVAILABLE"
	}
	return "INTERNAL_ERROR"
}

func toHTTPStatus(err error) int {
	switch {
	case domain.IsErrorCode(err, domain.ErrCodeOrderNotFound):
		return http.StatusNotFound
	case domain.IsErrorCode(err, domain.ErrCodeInvalidAmount):
		return http.StatusBadRequest
	case domain.IsErrorCode(err, domain.ErrCodePaymentRefused):
		return http.StatusUnprocessableEntity
	case domain.IsErrorCode(err, domain.ErrCodeDataIntegrity):
		return http.StatusConflict
	case domain.IsErrorCode(err, domain.ErrCodeTransientError),
		domain.IsErrorCode(err, domain.ErrCodeUnknownResponse),
		domain.IsErrorCode(err, domain.ErrCodeInvalidRedirect),
		domain.IsErrorCode(err, domain.ErrCodeRecurringDisable):
		return http.StatusBadGateway
	case gateway.IsTransportError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
