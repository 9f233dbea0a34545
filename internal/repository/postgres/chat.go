package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"github.com/lib/pq"
)

// AgentRepo implements repository.AgentRepository
type AgentRepo struct {
	db *sql.DB
}

// NewAgentRepo creates a new agent repository
func NewAgentRepo(db *sql.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

const agentColumns = `agent_id, name, description, system_prompt, avatar_url, is_active, created_at, updated_at`

func scanAgent(row rowScanner) (*domain.Agent, error) {
	var a domain.Agent
	var avatar sql.NullString
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.SystemPrompt, &avatar, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.AvatarURL = avatar.String
	return &a, nil
}

// Create inserts an agent. A taken name yields repository.ErrDuplicate.
func (r *AgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	query := `
		INSERT INTO ai_agents (name, description, system_prompt, avatar_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING agent_id, is_active, created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		agent.Name, agent.Description, agent.SystemPrompt, agent.AvatarURL,
	).Scan(&agent.ID, &agent.Active, &agent.CreatedAt, &agent.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// GetByID returns an agent, or nil when none exists
func (r *AgentRepo) GetByID(ctx context.Context, agentID int64) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM ai_agents WHERE agent_id = $1`
	return scanAgent(conn(ctx, r.db).QueryRowContext(ctx, query, agentID))
}

// List returns every agent ordered by id
func (r *AgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM ai_agents ORDER BY agent_id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *a)
	}

	return agents, rows.Err()
}

// ChatRepo implements repository.ChatRepository
type ChatRepo struct {
	db *sql.DB
}

// NewChatRepo creates a new chat message repository
func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// Insert stores a message and fills in its id and timestamp
func (r *ChatRepo) Insert(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, agent_id, sender_type, content, tokens)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING message_id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		message.UserID, message.AgentID, message.SenderType, message.Content, message.Tokens,
	).Scan(&message.ID, &message.CreatedAt)
}

// ListConversation returns the messages between a user and an agent, oldest first
func (r *ChatRepo) ListConversation(ctx context.Context, userID, agentID int64, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT message_id, user_id, agent_id, sender_type, content, tokens, created_at
		FROM chat_messages
		WHERE user_id = $1 AND agent_id = $2
		ORDER BY created_at ASC, message_id ASC
	`
	args := []any{userID, agentID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.AgentID, &m.SenderType, &m.Content, &m.Tokens, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// Latest returns the user's newest message with its agent's name, or nil when there is none
func (r *ChatRepo) Latest(ctx context.Context, userID int64) (*domain.LatestMessage, error) {
	query := `
		SELECT m.message_id, m.agent_id, a.name, m.created_at
		FROM chat_messages m
		JOIN ai_agents a ON a.agent_id = m.agent_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, m.message_id DESC
		LIMIT 1
	`

	var latest domain.LatestMessage
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).
		Scan(&latest.MessageID, &latest.AgentID, &latest.AgentName, &latest.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &latest, nil
}
