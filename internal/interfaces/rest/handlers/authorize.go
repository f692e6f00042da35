package handlers

import (
	"net/http"
	"time"

	"github.com/harborline/payment-orchestrator/internal/core/service"
	"github.com/harborline/payment-orchestrator/internal/interfaces/rest"
)

type authorizeRequest struct {
	ScheduledCaptureAt *time.Time `json:"scheduledCaptureAt,omitempty"`
}

type authorizeResponse struct {
	Success      bool   `json:"success"`
	ResultCode   string `json:"resultCode"`
	PspReference string `json:"pspReference,omitempty"`
	RedirectPath string `json:"redirectPath,omitempty"`
}

func (h *Handlers) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.authorizeService.Authorize(r.Context(), service.AuthoriseRequest{
		IncrementID:        r.PathValue("incrementID"),
		ScheduledCaptureAt: req.ScheduledCaptureAt,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authorizeResponse{
		Success:      true,
		ResultCode:   outcome.ResultCode,
		PspReference: outcome.PspReference,
		RedirectPath: outcome.RedirectPath,
	})
}
