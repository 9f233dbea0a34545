package handler

import (
	"net/http"
)

func (h *Handler) handleListWordFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	friends, err := h.svc.Progression.ListWordFriends(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, friends)
}

type purchaseRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=64"`
	Nickname string `json:"nickname" validate:"max=64"`
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	friend, err := h.svc.Progression.PurchaseWordFriend(r.Context(), req.UserID, req.Name, req.Nickname)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, friend)
}

type addExpRequest struct {
	WordFriendID int64 `json:"word_friend_id" validate:"required,gt=0"`
	AddExp       int   `json:"add_exp" validate:"gte=0,lte=1000000"`
	Level        int   `json:"level" validate:"gte=0"`
}

func (h *Handler) handleAddExp(w http.ResponseWriter, r *http.Request) {
	var req addExpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	progress, err := h.svc.Progression.AddExperience(r.Context(), req.WordFriendID, req.AddExp, req.Level)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
