package handlers

import (
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/interfaces/rest"
)

type cancelResponse struct {
	Success bool            `json:"success"`
	Outcome outcomeResponse `json:"outcome"`
}

func (h *Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.cancelService.Cancel(r.Context(), r.PathValue("incrementID"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cancelResponse{
		Success: true,
		Outcome: toOutcomeResponse(*outcome),
	})
}
