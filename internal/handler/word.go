package handler

import (
	"net/http"
)

func (h *Handler) handleNextWords(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	words, err := h.svc.Words.NextWords(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

func (h *Handler) handleLearningPercent(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	classification := r.URL.Query().Get("type")
	percent, err := h.svc.Words.LearningPercent(r.Context(), userID, classification)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"type": classification, "percent": percent})
}

type markMasteredRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	WordID   int64  `json:"word_id" validate:"required,gt=0"`
	WordType string `json:"word_type" validate:"required"`
	Mastered *bool  `json:"mastered" validate:"required"`
}

func (h *Handler) handleMarkMastered(w http.ResponseWriter, r *http.Request) {
	var req markMasteredRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.svc.Mastery.MarkMastered(r.Context(), req.UserID, req.WordID, req.WordType, *req.Mastered)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if result.Unlocked == nil {
		result.Unlocked = []string{}
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTodayMastered(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	count, err := h.svc.Mastery.TodayMasteredCount(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
