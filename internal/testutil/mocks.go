package testutil

import (
	"context"

	"wordfriend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockTransactor runs the closure directly and records each outcome.
// A closure that fails counts as a rollback, the way the postgres transactor treats it.
type MockTransactor struct {
	Calls      int
	RolledBack int
	LastErr    error
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	err := fn(ctx)
	if err != nil {
		m.RolledBack++
	}
	m.LastErr = err
	return err
}

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	args := m.Called(ctx, openID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByWalletKeyForUpdate(ctx context.Context, walletKey string) (*domain.User, error) {
	args := m.Called(ctx, walletKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSessionKey(ctx context.Context, userID int64, sessionKey string) error {
	args := m.Called(ctx, userID, sessionKey)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, userID int64, update domain.UserUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

func (m *MockUserRepository) AddWordPower(ctx context.Context, userID int64, delta int64) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) GetByID(ctx context.Context, wordID int64) (*domain.Word, error) {
	args := m.Called(ctx, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) List(ctx context.Context, offset, limit int) ([]domain.Word, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) CountByClassification(ctx context.Context, classification string) (int, error) {
	args := m.Called(ctx, classification)
	return args.Int(0), args.Error(1)
}

// MockMasteryRepository is a mock for MasteryRepository
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) Upsert(ctx context.Context, event *domain.MasteryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMasteryRepository) GetLearningDates(ctx context.Context, userID int64) ([]domain.Day, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Day), args.Error(1)
}

func (m *MockMasteryRepository) Today(ctx context.Context) (domain.Day, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Day), args.Error(1)
}

func (m *MockMasteryRepository) CountMasteredWords(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockMasteryRepository) CountMasteredByType(ctx context.Context, userID int64, wordType string) (int, error) {
	args := m.Called(ctx, userID, wordType)
	return args.Int(0), args.Error(1)
}

func (m *MockMasteryRepository) CountCreatedOn(ctx context.Context, userID int64, day domain.Day) (int, error) {
	args := m.Called(ctx, userID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockMasteryRepository) CountLearningDays(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockAchievementRepository is a mock for AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) CreateBatch(ctx context.Context, achievements []domain.Achievement) error {
	args := m.Called(ctx, achievements)
	return args.Error(0)
}

func (m *MockAchievementRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) Activate(ctx context.Context, userID int64, name string) (bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Error(1)
}

// MockWordFriendRepository is a mock for WordFriendRepository
type MockWordFriendRepository struct {
	mock.Mock
}

func (m *MockWordFriendRepository) Create(ctx context.Context, friend *domain.WordFriend) error {
	args := m.Called(ctx, friend)
	return args.Error(0)
}

func (m *MockWordFriendRepository) GetByIDForUpdate(ctx context.Context, wordFriendID int64) (*domain.WordFriend, error) {
	args := m.Called(ctx, wordFriendID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WordFriend), args.Error(1)
}

func (m *MockWordFriendRepository) GetFirstByUser(ctx context.Context, userID int64) (*domain.WordFriend, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WordFriend), args.Error(1)
}

func (m *MockWordFriendRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WordFriend, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WordFriend), args.Error(1)
}

func (m *MockWordFriendRepository) UpdateProgress(ctx context.Context, wordFriendID int64, level, exp int) error {
	args := m.Called(ctx, wordFriendID, level, exp)
	return args.Error(0)
}

func (m *MockWordFriendRepository) GetLevelConfig(ctx context.Context, level int) (*domain.LevelConfig, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelConfig), args.Error(1)
}

// MockLedgerRepository is a mock for LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) LockChain(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetLast(ctx context.Context) (*domain.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByWallet(ctx context.Context, walletKey string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, walletKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockAgentRepository is a mock for AgentRepository
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) GetByID(ctx context.Context, agentID int64) (*domain.Agent, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agent), args.Error(1)
}

// MockChatRepository is a mock for ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Insert(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockChatRepository) ListConversation(ctx context.Context, userID, agentID int64, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userID, agentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) Latest(ctx context.Context, userID int64) (*domain.LatestMessage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LatestMessage), args.Error(1)
}
