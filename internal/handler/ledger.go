package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type transferRequest struct {
	SenderKey   string `json:"sender_key" validate:"required"`
	ReceiverKey string `json:"receiver_key" validate:"required,nefield=SenderKey"`
	Amount      int64  `json:"amount" validate:"gt=0"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	entry, err := h.svc.Ledger.Transfer(r.Context(), req.SenderKey, req.ReceiverKey, req.Amount)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Ledger.History(r.Context(), mux.Vars(r)["wallet"])
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleVerifyChain(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Ledger.VerifyChain(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
