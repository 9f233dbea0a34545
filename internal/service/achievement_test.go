package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wordfriend/internal/domain"
	"wordfriend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var achievementNow = time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

type achievementMocks struct {
	achievements *testutil.MockAchievementRepository
	mastery      *testutil.MockMasteryRepository
	users        *testutil.MockUserRepository
}

func newAchievementService() (*AchievementService, achievementMocks) {
	m := achievementMocks{
		achievements: new(testutil.MockAchievementRepository),
		mastery:      new(testutil.MockMasteryRepository),
		users:        new(testutil.MockUserRepository),
	}
	streaks := NewStreakService(m.mastery, m.users)
	return NewAchievementService(m.achievements, m.mastery, m.users, streaks, testutil.NewTestLogger()), m
}

// expectUser registers the existence lookup every user-scoped call makes first
func (m achievementMocks) expectUser(userID int64) {
	m.users.On("GetByID", mock.Anything, userID).Return(testutil.NewTestUser(userID, "w1", 0), nil)
}

func TestAchievementService_CheckAchievements(t *testing.T) {
	today := domain.DayOf(achievementNow)

	tests := []struct {
		name          string
		active        []string
		streakDays    int
		mastered      int
		masteredToday int
		activated     map[string]bool
		expected      []string
	}{
		{
			name:          "nothing satisfied",
			streakDays:    3,
			mastered:      10,
			masteredToday: 2,
			expected:      nil,
		},
		{
			name:          "thirty day streak unlocks perseverance",
			streakDays:    30,
			mastered:      10,
			masteredToday: 2,
			activated:     map[string]bool{domain.AchievementPerseverance: true},
			expected:      []string{domain.AchievementPerseverance},
		},
		{
			name:          "hundred day streak unlocks both streak achievements",
			streakDays:    100,
			mastered:      499,
			masteredToday: 50,
			activated: map[string]bool{
				domain.AchievementPerseverance:   true,
				domain.AchievementSpeedMemorizer: true,
				domain.AchievementLimitBreaker:   true,
			},
			expected: []string{
				domain.AchievementPerseverance,
				domain.AchievementSpeedMemorizer,
				domain.AchievementLimitBreaker,
			},
		},
		{
			name:          "lost race is not reported",
			streakDays:    1,
			mastered:      500,
			masteredToday: 0,
			activated:     map[string]bool{domain.AchievementVocabularyMaster: false},
			expected:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newAchievementService()

			m.expectUser(1)
			m.achievements.On("ListByUser", mock.Anything, int64(1)).
				Return(testutil.NewTestAchievements(1, tt.active...), nil)
			m.mastery.On("Today", mock.Anything).Return(today, nil).Once()
			m.mastery.On("GetLearningDates", mock.Anything, int64(1)).
				Return(testutil.DaysBack(achievementNow, tt.streakDays), nil).Once()
			m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(tt.mastered, nil).Once()
			m.mastery.On("CountCreatedOn", mock.Anything, int64(1), today).Return(tt.masteredToday, nil).Once()
			for name, changed := range tt.activated {
				m.achievements.On("Activate", mock.Anything, int64(1), name).Return(changed, nil).Once()
			}

			unlocked, err := service.CheckAchievements(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, unlocked)
			m.achievements.AssertExpectations(t)
			m.mastery.AssertExpectations(t)
			m.users.AssertExpectations(t)
		})
	}
}

func TestAchievementService_CheckAchievements_UnknownUser(t *testing.T) {
	service, m := newAchievementService()

	m.users.On("GetByID", mock.Anything, int64(999)).Return(nil, nil)

	unlocked, err := service.CheckAchievements(context.Background(), 999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, unlocked)
	m.achievements.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	m.achievements.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAchievementService_CheckAchievements_MissingRow(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := achievementMocks{
		achievements: new(testutil.MockAchievementRepository),
		mastery:      new(testutil.MockMasteryRepository),
		users:        new(testutil.MockUserRepository),
	}
	service := NewAchievementService(m.achievements, m.mastery, m.users, NewStreakService(m.mastery, m.users), zap.New(core))
	today := domain.DayOf(achievementNow)

	// only perseverance was seeded; vocabulary master has no row to activate
	var seeded []domain.Achievement
	for _, a := range testutil.NewTestAchievements(1) {
		if a.Name == domain.AchievementPerseverance {
			seeded = append(seeded, a)
		}
	}

	m.expectUser(1)
	m.achievements.On("ListByUser", mock.Anything, int64(1)).Return(seeded, nil)
	m.mastery.On("Today", mock.Anything).Return(today, nil)
	m.mastery.On("GetLearningDates", mock.Anything, int64(1)).Return(nil, nil)
	m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(500, nil)
	m.mastery.On("CountCreatedOn", mock.Anything, int64(1), today).Return(0, nil)
	m.achievements.On("Activate", mock.Anything, int64(1), domain.AchievementVocabularyMaster).Return(false, nil)

	unlocked, err := service.CheckAchievements(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, unlocked)
	assert.Equal(t, 1, logs.FilterMessage("Achievement row missing, cannot unlock").Len())
	assert.Equal(t, 0, logs.FilterMessage("Achievement already unlocked").Len())
}

func TestAchievementService_CheckAchievements_LostRaceLogsDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := achievementMocks{
		achievements: new(testutil.MockAchievementRepository),
		mastery:      new(testutil.MockMasteryRepository),
		users:        new(testutil.MockUserRepository),
	}
	service := NewAchievementService(m.achievements, m.mastery, m.users, NewStreakService(m.mastery, m.users), zap.New(core))
	today := domain.DayOf(achievementNow)

	m.expectUser(1)
	m.achievements.On("ListByUser", mock.Anything, int64(1)).Return(testutil.NewTestAchievements(1), nil)
	m.mastery.On("Today", mock.Anything).Return(today, nil)
	m.mastery.On("GetLearningDates", mock.Anything, int64(1)).Return(nil, nil)
	m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(500, nil)
	m.mastery.On("CountCreatedOn", mock.Anything, int64(1), today).Return(0, nil)
	m.achievements.On("Activate", mock.Anything, int64(1), domain.AchievementVocabularyMaster).Return(false, nil)

	_, err := service.CheckAchievements(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Achievement already unlocked").Len())
	assert.Equal(t, 0, logs.FilterMessage("Achievement row missing, cannot unlock").Len())
}

func TestAchievementService_CheckAchievements_SkipsActive(t *testing.T) {
	service, m := newAchievementService()
	m.expectUser(1)

	all := []string{
		domain.AchievementPerseverance,
		domain.AchievementVocabularyMaster,
		domain.AchievementSpeedMemorizer,
		domain.AchievementLimitBreaker,
	}
	m.achievements.On("ListByUser", mock.Anything, int64(1)).
		Return(testutil.NewTestAchievements(1, all...), nil)

	unlocked, err := service.CheckAchievements(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, unlocked)
	m.mastery.AssertNotCalled(t, "GetLearningDates", mock.Anything, mock.Anything)
	m.mastery.AssertNotCalled(t, "CountMasteredWords", mock.Anything, mock.Anything)
	m.achievements.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAchievementService_CheckAchievements_Idempotent(t *testing.T) {
	service, m := newAchievementService()
	today := domain.DayOf(achievementNow)

	m.expectUser(1)
	m.achievements.On("ListByUser", mock.Anything, int64(1)).
		Return(testutil.NewTestAchievements(1), nil).Once()
	m.achievements.On("ListByUser", mock.Anything, int64(1)).
		Return(testutil.NewTestAchievements(1, domain.AchievementPerseverance), nil).Once()
	m.mastery.On("Today", mock.Anything).Return(today, nil)
	m.mastery.On("GetLearningDates", mock.Anything, int64(1)).Return(testutil.DaysBack(achievementNow, 30), nil)
	m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(0, nil)
	m.mastery.On("CountCreatedOn", mock.Anything, int64(1), today).Return(0, nil)
	m.achievements.On("Activate", mock.Anything, int64(1), domain.AchievementPerseverance).
		Return(true, nil).Once()

	first, err := service.CheckAchievements(context.Background(), 1)
	require.NoError(t, err)
	second, err := service.CheckAchievements(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{domain.AchievementPerseverance}, first)
	assert.Empty(t, second)
	m.achievements.AssertExpectations(t)
}

func TestAchievementService_CheckAchievements_StoreFailure(t *testing.T) {
	service, m := newAchievementService()

	m.expectUser(1)
	m.achievements.On("ListByUser", mock.Anything, int64(1)).Return(nil, fmt.Errorf("timeout"))

	unlocked, err := service.CheckAchievements(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.Nil(t, unlocked)
}

func TestAchievementService_CheckAllUsers(t *testing.T) {
	service, m := newAchievementService()
	today := domain.DayOf(achievementNow)

	m.users.On("ListActiveIDs", mock.Anything).Return([]int64{1, 2, 3}, nil)
	m.mastery.On("Today", mock.Anything).Return(today, nil)

	m.achievements.On("ListByUser", mock.Anything, int64(1)).Return(testutil.NewTestAchievements(1), nil)
	m.mastery.On("GetLearningDates", mock.Anything, int64(1)).Return(testutil.DaysBack(achievementNow, 30), nil)
	m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(0, nil)
	m.mastery.On("CountCreatedOn", mock.Anything, int64(1), today).Return(0, nil)
	m.achievements.On("Activate", mock.Anything, int64(1), domain.AchievementPerseverance).Return(true, nil)

	m.achievements.On("ListByUser", mock.Anything, int64(2)).Return(nil, fmt.Errorf("connection reset"))

	m.achievements.On("ListByUser", mock.Anything, int64(3)).Return(testutil.NewTestAchievements(3), nil)
	m.mastery.On("GetLearningDates", mock.Anything, int64(3)).Return(nil, nil)
	m.mastery.On("CountMasteredWords", mock.Anything, int64(3)).Return(500, nil)
	m.mastery.On("CountCreatedOn", mock.Anything, int64(3), today).Return(0, nil)
	m.achievements.On("Activate", mock.Anything, int64(3), domain.AchievementVocabularyMaster).Return(true, nil)

	result, err := service.CheckAllUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Users: 3, Unlocked: 2, Failed: 1}, result)
	m.achievements.AssertExpectations(t)
	m.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAchievementService_CheckAllUsers_Cancelled(t *testing.T) {
	service, m := newAchievementService()

	m.users.On("ListActiveIDs", mock.Anything).Return([]int64{1, 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := service.CheckAllUsers(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Users)
	m.achievements.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestAchievementService_ListAchievements(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		expectedError error
	}{
		{
			name: "existing user",
			user: testutil.NewTestUser(1, "w1", 0),
		},
		{
			name:          "unknown user",
			user:          nil,
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newAchievementService()

			m.users.On("GetByID", mock.Anything, int64(1)).Return(tt.user, nil)
			if tt.user != nil {
				m.achievements.On("ListByUser", mock.Anything, int64(1)).Return(testutil.NewTestAchievements(1), nil)
			}

			list, err := service.ListAchievements(context.Background(), 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, 4)
		})
	}
}
