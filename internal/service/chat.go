package service

import (
	"context"
	"errors"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"go.uber.org/zap"
)

// ChatService stores tutor agents and the messages exchanged with them
type ChatService struct {
	agentRepo repository.AgentRepository
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	agentRepo repository.AgentRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		agentRepo: agentRepo,
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// CreateAgent registers a tutor agent. Names are unique.
func (s *ChatService) CreateAgent(ctx context.Context, name, description, systemPrompt string) (*domain.Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("agent name is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, invalid("system prompt is required")
	}

	agent := &domain.Agent{Name: name, Description: description, SystemPrompt: systemPrompt}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("agent %q already exists", name)
		}
		return nil, storeErr("create agent", err)
	}

	s.logger.Info("Agent created", zap.Int64("agent_id", agent.ID), zap.String("name", agent.Name))
	return agent, nil
}

// ListAgents returns every registered agent
func (s *ChatService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list agents", err)
	}
	return agents, nil
}

// PostMessage appends a message to the user's conversation with an agent
func (s *ChatService) PostMessage(ctx context.Context, userID, agentID int64, senderType, content string, tokens int) (*domain.ChatMessage, error) {
	if !domain.ValidSender(senderType) {
		return nil, invalid("sender_type must be %q or %q, got %q", domain.SenderUser, domain.SenderAgent, senderType)
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("message content is required")
	}
	if tokens < 0 {
		return nil, invalid("tokens must not be negative, got %d", tokens)
	}
	if err := s.requireParticipants(ctx, userID, agentID); err != nil {
		return nil, err
	}

	message := &domain.ChatMessage{
		UserID:     userID,
		AgentID:    agentID,
		SenderType: senderType,
		Content:    content,
		Tokens:     tokens,
	}
	if err := s.chatRepo.Insert(ctx, message); err != nil {
		return nil, storeErr("insert message", err)
	}
	return message, nil
}

// Conversation returns the messages between a user and an agent, oldest first.
// limit <= 0 returns the whole conversation.
func (s *ChatService) Conversation(ctx context.Context, userID, agentID int64, limit int) ([]domain.ChatMessage, error) {
	if err := s.requireParticipants(ctx, userID, agentID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListConversation(ctx, userID, agentID, limit)
	if err != nil {
		return nil, storeErr("list conversation", err)
	}
	return messages, nil
}

// LatestMessage returns the user's newest message with its agent's name,
// or nil when the user has not chatted yet
func (s *ChatService) LatestMessage(ctx context.Context, userID int64) (*domain.LatestMessage, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	latest, err := s.chatRepo.Latest(ctx, userID)
	if err != nil {
		return nil, storeErr("load latest message", err)
	}
	return latest, nil
}

func (s *ChatService) requireParticipants(ctx context.Context, userID, agentID int64) error {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return err
	}

	agent, err := s.agentRepo.GetByID(ctx, agentID)
	if err != nil {
		return storeErr("load agent", err)
	}
	if agent == nil {
		return notFound("agent %d", agentID)
	}
	return nil
}
