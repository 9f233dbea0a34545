package handler

import (
	"net/http"

	"wordfriend/internal/domain"
)

type loginRequest struct {
	Code string `json:"code" validate:"required"`
}

type loginResponse struct {
	User       *domain.User `json:"user"`
	FirstLogin bool         `json:"first_login"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, first, err := h.svc.Users.Login(r.Context(), req.Code)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{User: user, FirstLogin: first})
}

type updateUserRequest struct {
	Email                   *string `json:"email" validate:"omitempty,email"`
	AvatarURL               *string `json:"avatar_url" validate:"omitempty,url"`
	PreferredClassification *string `json:"preferred_classification"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.svc.Users.UpdatePreferences(r.Context(), userID, domain.UserUpdate{
		Email:                   req.Email,
		AvatarURL:               req.AvatarURL,
		PreferredClassification: req.PreferredClassification,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	summary, err := h.svc.Users.GetSummary(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	streak, err := h.svc.Streaks.CalculateStreak(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"streak": streak})
}

func (h *Handler) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	list, err := h.svc.Achievements.ListAchievements(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	unlocked, err := h.svc.Achievements.CheckAchievements(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if unlocked == nil {
		unlocked = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"unlocked": unlocked})
}
