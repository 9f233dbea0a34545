package handler

import (
	"net/http"
	"strconv"

	"wordfriend/internal/domain"
)

type createAgentRequest struct {
	Name         string `json:"name" validate:"required,max=50"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt" validate:"required"`
}

func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	agent, err := h.svc.Chat.CreateAgent(r.Context(), req.Name, req.Description, req.SystemPrompt)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, agent)
}

func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.svc.Chat.ListAgents(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	respondJSON(w, http.StatusOK, agents)
}

type postMessageRequest struct {
	UserID     int64  `json:"user_id" validate:"required,gt=0"`
	AgentID    int64  `json:"agent_id" validate:"required,gt=0"`
	SenderType string `json:"sender_type" validate:"required,oneof=user agent"`
	Content    string `json:"content" validate:"required"`
	Tokens     int    `json:"tokens" validate:"gte=0"`
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	msg, err := h.svc.Chat.PostMessage(r.Context(), req.UserID, req.AgentID, req.SenderType, req.Content, req.Tokens)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	agentID, err := queryID(r, "agent_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.handleError(w, r, invalidParam("limit", raw))
			return
		}
	}

	messages, err := h.svc.Chat.Conversation(r.Context(), userID, agentID, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleLatestMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	latest, err := h.svc.Chat.LatestMessage(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, latest)
}
