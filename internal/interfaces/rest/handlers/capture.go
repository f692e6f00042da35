package handlers

import (
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/core/service"
	"github.com/harborline/payment-orchestrator/internal/interfaces/rest"
)

type captureRequest struct {
	Amount       int64  `json:"amount"`
	InvoiceTotal *int64 `json:"invoiceTotal,omitempty"`
}

type captureResponse struct {
	Success bool            `json:"success"`
	Outcome outcomeResponse `json:"outcome"`
}

func (h *Handlers) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.captureService.Capture(r.Context(), service.CaptureRequest{
		IncrementID:  r.PathValue("incrementID"),
		Amount:       req.Amount,
		InvoiceTotal: req.InvoiceTotal,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, captureResponse{
		Success: true,
		Outcome: toOutcomeResponse(*outcome),
	})
}
