package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"
	"wordfriend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	ident *domain.Identity
	err   error
}

func (s stubIdentity) Exchange(ctx context.Context, code string) (*domain.Identity, error) {
	return s.ident, s.err
}

type userMocks struct {
	tx           *testutil.MockTransactor
	users        *testutil.MockUserRepository
	achievements *testutil.MockAchievementRepository
	friends      *testutil.MockWordFriendRepository
	mastery      *testutil.MockMasteryRepository
}

func newUserService(identity IdentityExchanger) (*UserService, userMocks) {
	m := userMocks{
		tx:           &testutil.MockTransactor{},
		users:        new(testutil.MockUserRepository),
		achievements: new(testutil.MockAchievementRepository),
		friends:      new(testutil.MockWordFriendRepository),
		mastery:      new(testutil.MockMasteryRepository),
	}
	service := NewUserService(m.tx, m.users, m.achievements, m.friends, m.mastery, identity, testutil.NewTestLogger())
	return service, m
}

func TestUserService_Login_ExistingUser(t *testing.T) {
	service, m := newUserService(stubIdentity{ident: &domain.Identity{OpenID: "openid-1", SessionKey: "new-key"}})

	existing := testutil.NewTestUser(4, "w4", 10)
	m.users.On("GetByOpenID", mock.Anything, "openid-1").Return(existing, nil)
	m.users.On("UpdateSessionKey", mock.Anything, int64(4), "new-key").Return(nil)

	user, first, err := service.Login(context.Background(), "code")

	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, int64(4), user.UserID)
	assert.Equal(t, "new-key", user.WechatSessionKey)
	assert.Equal(t, 0, m.tx.Calls)
	m.users.AssertExpectations(t)
}

func TestUserService_Login_Onboards(t *testing.T) {
	service, m := newUserService(stubIdentity{ident: &domain.Identity{OpenID: "openid-2", SessionKey: "sk"}})

	m.users.On("GetByOpenID", mock.Anything, "openid-2").Return(nil, nil)
	m.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).UserID = 11
		}).
		Return(nil)
	m.achievements.On("CreateBatch", mock.Anything, mock.MatchedBy(func(list []domain.Achievement) bool {
		if len(list) != 4 {
			return false
		}
		for _, a := range list {
			if a.Active || a.UserID != 11 {
				return false
			}
		}
		return true
	})).Return(nil)
	m.friends.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.WordFriend) bool {
		return f.UserID == 11 && f.Name == "robot" && f.Nickname == "robot" && f.Level == 0 && f.Exp == 0
	})).Return(nil)

	user, first, err := service.Login(context.Background(), "code")

	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, int64(11), user.UserID)
	assert.True(t, strings.HasPrefix(user.Username, "learner_"))
	assert.Len(t, user.Username, len("learner_")+8)
	assert.Len(t, user.WalletKey, 16)
	assert.Equal(t, 1, m.tx.Calls)
	m.users.AssertExpectations(t)
	m.achievements.AssertExpectations(t)
	m.friends.AssertExpectations(t)
}

func TestUserService_Login_ConcurrentOnboarding(t *testing.T) {
	service, m := newUserService(stubIdentity{ident: &domain.Identity{OpenID: "openid-3", SessionKey: "sk"}})

	winner := testutil.NewTestUser(12, "w12", 0)
	m.users.On("GetByOpenID", mock.Anything, "openid-3").Return(nil, nil).Once()
	m.users.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: users_wechat_openid_key", repository.ErrDuplicate))
	m.users.On("GetByOpenID", mock.Anything, "openid-3").Return(winner, nil).Once()

	user, first, err := service.Login(context.Background(), "code")

	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, int64(12), user.UserID)
	m.achievements.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestUserService_Login_Errors(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		identity      stubIdentity
		expectedError error
	}{
		{
			name:          "empty code",
			code:          "",
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "exchange rejected",
			code:          "bad",
			identity:      stubIdentity{err: fmt.Errorf("%w: code been used", domain.ErrInvalidArgument)},
			expectedError: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newUserService(tt.identity)

			user, _, err := service.Login(context.Background(), tt.code)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, user)
			m.users.AssertNotCalled(t, "GetByOpenID", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_GetSummary(t *testing.T) {
	tests := []struct {
		name        string
		friend      *domain.WordFriend
		next        *domain.LevelConfig
		expected    *domain.UserSummary
		expectedErr error
	}{
		{
			name:   "friend below top level",
			friend: testutil.NewTestWordFriend(3, 1, 2, 40),
			next:   &domain.LevelConfig{Level: 3, ExpRequire: 300},
			expected: &domain.UserSummary{
				WordFriend:       *testutil.NewTestWordFriend(3, 1, 2, 40),
				NextLevelRequire: 300,
				LearningDays:     6,
				MasteredWords:    120,
				WordPower:        80,
			},
		},
		{
			name:   "friend at top level",
			friend: testutil.NewTestWordFriend(3, 1, 10, 0),
			next:   nil,
			expected: &domain.UserSummary{
				WordFriend:    *testutil.NewTestWordFriend(3, 1, 10, 0),
				LearningDays:  6,
				MasteredWords: 120,
				WordPower:     80,
			},
		},
		{
			name:        "no word friend",
			friend:      nil,
			expectedErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newUserService(stubIdentity{})

			m.users.On("GetByID", mock.Anything, int64(1)).Return(testutil.NewTestUser(1, "w1", 80), nil)
			m.friends.On("GetFirstByUser", mock.Anything, int64(1)).Return(tt.friend, nil)
			if tt.friend != nil {
				m.friends.On("GetLevelConfig", mock.Anything, tt.friend.Level+1).Return(tt.next, nil)
				m.mastery.On("CountLearningDays", mock.Anything, int64(1)).Return(6, nil)
				m.mastery.On("CountMasteredWords", mock.Anything, int64(1)).Return(120, nil)
			}

			summary, err := service.GetSummary(context.Background(), 1)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
		})
	}
}

func TestUserService_UpdatePreferences(t *testing.T) {
	classification := "CET6"
	blank := " "

	tests := []struct {
		name          string
		update        domain.UserUpdate
		expectedError error
	}{
		{
			name:   "change classification",
			update: domain.UserUpdate{PreferredClassification: &classification},
		},
		{
			name:          "empty update",
			update:        domain.UserUpdate{},
			expectedError: domain.ErrInvalidArgument,
		},
		{
			name:          "blank classification",
			update:        domain.UserUpdate{PreferredClassification: &blank},
			expectedError: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newUserService(stubIdentity{})

			updated := testutil.NewTestUser(1, "w1", 0)
			updated.PreferredClassification = classification
			if tt.expectedError == nil {
				m.users.On("GetByID", mock.Anything, int64(1)).Return(updated, nil)
				m.users.On("Update", mock.Anything, int64(1), tt.update).Return(nil)
			}

			user, err := service.UpdatePreferences(context.Background(), 1, tt.update)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "CET6", user.PreferredClassification)
			m.users.AssertExpectations(t)
		})
	}
}
