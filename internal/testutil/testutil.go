package testutil

import (
	"time"

	"wordfriend/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewTestUser creates a test user
func NewTestUser(userID int64, walletKey string, wordPower int64) *domain.User {
	return &domain.User{
		UserID:       userID,
		Username:     "learner_test",
		WechatOpenID: "openid-test",
		WalletKey:    walletKey,
		WordPower:    wordPower,
		CreatedAt:    time.Now(),
	}
}

// NewTestWord creates a test word
func NewTestWord(id int64, english string, meanings ...string) *domain.Word {
	return &domain.Word{
		ID:             id,
		English:        english,
		Chinese:        meanings,
		Classification: "CET4",
	}
}

// NewTestWordFriend creates a test word friend
func NewTestWordFriend(id, userID int64, level, exp int) *domain.WordFriend {
	return &domain.WordFriend{
		ID:       id,
		UserID:   userID,
		Name:     "robot",
		Nickname: "robot",
		Level:    level,
		Exp:      exp,
	}
}

// NewTestAchievements returns the seeded catalog for a user with the named entries active
func NewTestAchievements(userID int64, active ...string) []domain.Achievement {
	list := domain.SeedAchievements(userID)
	for i := range list {
		list[i].ID = int64(i + 1)
		for _, name := range active {
			if list[i].Name == name {
				list[i].Active = true
			}
		}
	}
	return list
}

// DaysBack returns n consecutive days ending at today
func DaysBack(today time.Time, n int) []domain.Day {
	days := make([]domain.Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, domain.DayOf(today.AddDate(0, 0, -i)))
	}
	return days
}

// NewTestAgent creates a test chat agent
func NewTestAgent(id int64, name string) *domain.Agent {
	return &domain.Agent{
		ID:           id,
		Name:         name,
		SystemPrompt: "You are " + name + ", an English tutor",
		Active:       true,
	}
}
