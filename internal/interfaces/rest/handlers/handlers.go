// Package handlers exposes the modification operations over a small
// JSON API for the host commerce system's back office.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/core/service"
)

type Handlers struct {
	authorizeService *service.AuthorizeService
	captureService   *service.CaptureService
	refundService    *service.RefundService
	cancelService    *service.CancelService
}

func NewHandlers(
	authorizeService *service.AuthorizeService,
	captureService *service.CaptureService,
	refundService *service.RefundService,
	cancelService *service.CancelService,
) *Handlers {
	return &Handlers{
		authorizeService: authorizeService,
		captureService:   captureService,
		refundService:    refundService,
		cancelService:    cancelService,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders/{incrementID}/authorize", h.Authorize)
	mux.HandleFunc("POST /orders/{incrementID}/capture", h.Capture)
	mux.HandleFunc("POST /orders/{incrementID}/refund", h.Refund)
	mux.HandleFunc("POST /orders/{incrementID}/cancel", h.Cancel)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, `{"success":false,"error":{"code":"BAD_REQUEST","message":"malformed request body"}}`, http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
