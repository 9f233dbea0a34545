package domain

import "time"

// Message senders
const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// Agent is a tutor persona a learner can chat with
type Agent struct {
	ID           int64     `json:"agent_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	SystemPrompt string    `json:"system_prompt"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChatMessage is one stored turn of a learner/agent conversation
type ChatMessage struct {
	ID         int64     `json:"message_id"`
	UserID     int64     `json:"user_id"`
	AgentID    int64     `json:"agent_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	Tokens     int       `json:"tokens"`
	CreatedAt  time.Time `json:"created_at"`
}

// LatestMessage is the user's most recent message joined with its agent's name
type LatestMessage struct {
	MessageID int64     `json:"message_id"`
	AgentID   int64     `json:"agent_id"`
	AgentName string    `json:"agent"`
	CreatedAt time.Time `json:"time"`
}

// ValidSender reports whether s names a message sender
func ValidSender(s string) bool {
	return s == SenderUser || s == SenderAgent
}
