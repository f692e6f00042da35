package handlers

import (
	"net/http"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/core/service"
	"github.com/harborline/payment-orchestrator/internal/interfaces/rest"
)

type refundRequest struct {
	Amount          int64  `json:"amount"`
	CreditMemoTotal *int64 `json:"creditMemoTotal,omitempty"`
}

type outcomeResponse struct {
	Kind         string `json:"kind"`
	ResultCode   string `json:"resultCode,omitempty"`
	PspReference string `json:"pspReference,omitempty"`
}

type refundResponse struct {
	Success  bool              `json:"success"`
	Outcomes []outcomeResponse `json:"outcomes"`
}

func (h *Handlers) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcomes, err := h.refundService.Refund(r.Context(), service.RefundRequest{
		IncrementID:     r.PathValue("incrementID"),
		Amount:          req.Amount,
		CreditMemoTotal: req.CreditMemoTotal,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refundResponse{
		Success:  true,
		Outcomes: toOutcomeResponses(outcomes),
	})
}

func toOutcomeResponses(outcomes []domain.Outcome) []outcomeResponse {
	results := make([]outcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, toOutcomeResponse(o))
	}
	return results
}

func toOutcomeResponse(o domain.Outcome) outcomeResponse {
	return outcomeResponse{
		Kind:         string(o.Kind),
		ResultCode:   o.ResultCode,
		PspReference: o.PspReference,
	}
}
