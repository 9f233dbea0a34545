// Package handler exposes the services over an HTTP JSON API.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"wordfriend/internal/domain"
	"wordfriend/internal/middleware"
	"wordfriend/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// UserService handles login, summaries and preferences
type UserService interface {
	Login(ctx context.Context, code string) (*domain.User, bool, error)
	GetSummary(ctx context.Context, userID int64) (*domain.UserSummary, error)
	UpdatePreferences(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.User, error)
}

// StreakService computes learning streaks
type StreakService interface {
	CalculateStreak(ctx context.Context, userID int64) (int, error)
}

// AchievementService lists and evaluates achievements
type AchievementService interface {
	ListAchievements(ctx context.Context, userID int64) ([]domain.Achievement, error)
	CheckAchievements(ctx context.Context, userID int64) ([]string, error)
}

// WordService delivers words and learning progress
type WordService interface {
	NextWords(ctx context.Context, userID int64) ([]service.WordItem, error)
	LearningPercent(ctx context.Context, userID int64, classification string) (int, error)
}

// MasteryService records mastery events
type MasteryService interface {
	MarkMastered(ctx context.Context, userID, wordID int64, wordType string, mastered bool) (*service.MarkResult, error)
	TodayMasteredCount(ctx context.Context, userID int64) (int, error)
}

// ProgressionService levels and sells word friends
type ProgressionService interface {
	AddExperience(ctx context.Context, wordFriendID int64, delta, level int) (*domain.LevelProgress, error)
	PurchaseWordFriend(ctx context.Context, userID int64, name, nickname string) (*domain.WordFriend, error)
	ListWordFriends(ctx context.Context, userID int64) ([]domain.WordFriend, error)
}

// LedgerService moves word power along the transaction chain
type LedgerService interface {
	Transfer(ctx context.Context, senderKey, receiverKey string, amount int64) (*domain.LedgerEntry, error)
	History(ctx context.Context, walletKey string) ([]domain.LedgerEntry, error)
	VerifyChain(ctx context.Context) (*domain.ChainReport, error)
}

// ChatService stores agents and conversations
type ChatService interface {
	CreateAgent(ctx context.Context, name, description, systemPrompt string) (*domain.Agent, error)
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	PostMessage(ctx context.Context, userID, agentID int64, senderType, content string, tokens int) (*domain.ChatMessage, error)
	Conversation(ctx context.Context, userID, agentID int64, limit int) ([]domain.ChatMessage, error)
	LatestMessage(ctx context.Context, userID int64) (*domain.LatestMessage, error)
}

// Pinger reports store liveness
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups the dependencies of the API
type Services struct {
	Users        UserService
	Streaks      StreakService
	Achievements AchievementService
	Words        WordService
	Mastery      MasteryService
	Progression  ProgressionService
	Ledger       LedgerService
	Chat         ChatService
}

// RouterConfig holds transport settings for the API
type RouterConfig struct {
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	// TrustedProxies may report the client address; nil trusts no one
	TrustedProxies *middleware.ProxyTrust
}

// Handler serves the HTTP API
type Handler struct {
	svc    Services
	db     Pinger
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(svc Services, db Pinger, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, db: db, logger: logger}
}

// Router builds the routed handler with its middleware chain
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Use(middleware.RequestLogger(h.logger))
	r.Use(middleware.Recoverer(h.logger))
	r.Use(middleware.RateLimit(limiter, cfg.TrustedProxies))

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Users
	api.HandleFunc("/wxlogin", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.handleUpdateUser).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}/summary", h.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/streak", h.handleStreak).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/achievements", h.handleListAchievements).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/achievements/check", h.handleCheckAchievements).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/word-friends", h.handleListWordFriends).Methods(http.MethodGet)

	// Words
	api.HandleFunc("/words", h.handleNextWords).Methods(http.MethodGet)
	api.HandleFunc("/words/progress", h.handleLearningPercent).Methods(http.MethodGet)
	api.HandleFunc("/word/mark-mastered", h.handleMarkMastered).Methods(http.MethodPost)
	api.HandleFunc("/today_mastered_words", h.handleTodayMastered).Methods(http.MethodGet)

	// Word friends
	api.HandleFunc("/word-friends/purchase", h.handlePurchase).Methods(http.MethodPost)
	api.HandleFunc("/add_exp", h.handleAddExp).Methods(http.MethodPost)

	// Ledger; verify is registered before the wallet pattern
	api.HandleFunc("/ledger/transfer", h.handleTransfer).Methods(http.MethodPost)
	api.HandleFunc("/ledger/verify", h.handleVerifyChain).Methods(http.MethodGet)
	api.HandleFunc("/ledger/{wallet}", h.handleHistory).Methods(http.MethodGet)

	// Chat
	api.HandleFunc("/add/agent", h.handleCreateAgent).Methods(http.MethodPost)
	api.HandleFunc("/agents", h.handleListAgents).Methods(http.MethodGet)
	api.HandleFunc("/chat/messages", h.handlePostMessage).Methods(http.MethodPost)
	api.HandleFunc("/chat/conversations", h.handleConversation).Methods(http.MethodGet)
	api.HandleFunc("/latest_message_time", h.handleLatestMessage).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	})
	return c.Handler(r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, CodeInternal, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// pathID parses a positive integer path variable
func pathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name], name)
}

// queryID parses a positive integer query parameter
func queryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name), name)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidParam(name, raw)
	}
	return id, nil
}
