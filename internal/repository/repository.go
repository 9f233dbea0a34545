package repository

import (
	"context"
	"errors"

	"wordfriend/internal/domain"
)

// ErrDuplicate is returned when an insert hits a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// Transactor runs fn inside one atomic unit. Repository calls made with the
// context passed to fn join that unit; any error returned by fn rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines user data operations.
// Lookups return nil, nil when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByOpenID(ctx context.Context, openID string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, userID int64) (*domain.User, error)
	GetByWalletKeyForUpdate(ctx context.Context, walletKey string) (*domain.User, error)
	UpdateSessionKey(ctx context.Context, userID int64, sessionKey string) error
	Update(ctx context.Context, userID int64, update domain.UserUpdate) error
	AddWordPower(ctx context.Context, userID int64, delta int64) error
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

// WordRepository defines word catalog operations
type WordRepository interface {
	GetByID(ctx context.Context, wordID int64) (*domain.Word, error)
	List(ctx context.Context, offset, limit int) ([]domain.Word, error)
	CountByClassification(ctx context.Context, classification string) (int, error)
}

// MasteryRepository defines mastery event operations
type MasteryRepository interface {
	Upsert(ctx context.Context, event *domain.MasteryEvent) error
	GetLearningDates(ctx context.Context, userID int64) ([]domain.Day, error)
	// Today is the store's current date, in the zone learning dates are bucketed in
	Today(ctx context.Context) (domain.Day, error)
	CountMasteredWords(ctx context.Context, userID int64) (int, error)
	CountMasteredByType(ctx context.Context, userID int64, wordType string) (int, error)
	CountCreatedOn(ctx context.Context, userID int64, day domain.Day) (int, error)
	CountLearningDays(ctx context.Context, userID int64) (int, error)
}

// AchievementRepository defines achievement operations
type AchievementRepository interface {
	CreateBatch(ctx context.Context, achievements []domain.Achievement) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Achievement, error)
	// Activate flips the achievement to active and reports whether this call made the transition
	Activate(ctx context.Context, userID int64, name string) (bool, error)
}

// WordFriendRepository defines word friend and level table operations
type WordFriendRepository interface {
	Create(ctx context.Context, friend *domain.WordFriend) error
	GetByIDForUpdate(ctx context.Context, wordFriendID int64) (*domain.WordFriend, error)
	GetFirstByUser(ctx context.Context, userID int64) (*domain.WordFriend, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WordFriend, error)
	UpdateProgress(ctx context.Context, wordFriendID int64, level, exp int) error
	GetLevelConfig(ctx context.Context, level int) (*domain.LevelConfig, error)
}

// LedgerRepository defines transaction chain operations
type LedgerRepository interface {
	// LockChain serializes appends until the enclosing transaction ends
	LockChain(ctx context.Context) error
	GetLast(ctx context.Context) (*domain.LedgerEntry, error)
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListByWallet(ctx context.Context, walletKey string) ([]domain.LedgerEntry, error)
	ListAll(ctx context.Context) ([]domain.LedgerEntry, error)
}

// AgentRepository defines chat agent operations
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, agentID int64) (*domain.Agent, error)
	List(ctx context.Context) ([]domain.Agent, error)
}

// ChatRepository defines chat message operations
type ChatRepository interface {
	Insert(ctx context.Context, message *domain.ChatMessage) error
	// ListConversation returns messages oldest first; limit <= 0 means all
	ListConversation(ctx context.Context, userID, agentID int64, limit int) ([]domain.ChatMessage, error)
	Latest(ctx context.Context, userID int64) (*domain.LatestMessage, error)
}
