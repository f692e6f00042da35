package gateway

import (
	"errors"
	"fmt"
)

// TransportError is a transport-level fault from the payment service:
// the endpoint was unreachable or replied outside the success protocol.
// It carries the fault code and message verbatim; callers log and
// propagate it without interpreting the code.
type TransportError struct {
	Code       string
	Message    string
	StatusCode int
}

type errorResponse struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	ErrorType string `json:"errorType"`
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway fault [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
