package service

import (
	"context"
	"errors"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultFriendName     = "robot"
	defaultClassification = "CET4"
)

// IdentityExchanger turns a client login code into a stable identity
type IdentityExchanger interface {
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

// UserService handles login, onboarding and user summaries
type UserService struct {
	tx              repository.Transactor
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
	wordFriendRepo  repository.WordFriendRepository
	masteryRepo     repository.MasteryRepository
	identity        IdentityExchanger
	logger          *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
	wordFriendRepo repository.WordFriendRepository,
	masteryRepo repository.MasteryRepository,
	identity IdentityExchanger,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		tx:              tx,
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		wordFriendRepo:  wordFriendRepo,
		masteryRepo:     masteryRepo,
		identity:        identity,
		logger:          logger,
	}
}

// Login exchanges code for an identity and returns the matching user,
// onboarding a new one on first login
func (s *UserService) Login(ctx context.Context, code string) (*domain.User, bool, error) {
	if strings.TrimSpace(code) == "" {
		return nil, false, invalid("login code is required")
	}

	ident, err := s.identity.Exchange(ctx, code)
	if err != nil {
		return nil, false, err
	}

	user, err := s.userRepo.GetByOpenID(ctx, ident.OpenID)
	if err != nil {
		return nil, false, storeErr("load user", err)
	}
	if user != nil {
		if err := s.userRepo.UpdateSessionKey(ctx, user.UserID, ident.SessionKey); err != nil {
			return nil, false, storeErr("update session key", err)
		}
		user.WechatSessionKey = ident.SessionKey
		return user, false, nil
	}

	user, err = s.onboard(ctx, ident)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent login for the same openid created the user first.
		user, err = s.userRepo.GetByOpenID(ctx, ident.OpenID)
		if err != nil {
			return nil, false, storeErr("load user", err)
		}
		if user == nil {
			return nil, false, notFound("user for openid %s", ident.OpenID)
		}
		return user, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("User onboarded",
		zap.Int64("user_id", user.UserID),
		zap.String("username", user.Username),
	)
	return user, true, nil
}

// onboard creates the user together with the achievement catalog and a default word friend
func (s *UserService) onboard(ctx context.Context, ident *domain.Identity) (*domain.User, error) {
	user := &domain.User{
		Username:                "learner_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		WechatOpenID:            ident.OpenID,
		WechatSessionKey:        ident.SessionKey,
		WalletKey:               domain.NewWalletKey(),
		PreferredClassification: defaultClassification,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return err
			}
			return storeErr("create user", err)
		}
		if err := s.achievementRepo.CreateBatch(ctx, domain.SeedAchievements(user.UserID)); err != nil {
			return storeErr("seed achievements", err)
		}
		friend := &domain.WordFriend{UserID: user.UserID, Name: defaultFriendName, Nickname: defaultFriendName}
		if err := s.wordFriendRepo.Create(ctx, friend); err != nil {
			return storeErr("create word friend", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a non-deleted user
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr("load user", err)
	}
	if user == nil {
		return nil, notFound("user %d", userID)
	}
	return user, nil
}

// GetSummary returns the user's first word friend and learning totals
func (s *UserService) GetSummary(ctx context.Context, userID int64) (*domain.UserSummary, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friend, err := s.wordFriendRepo.GetFirstByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("load word friend", err)
	}
	if friend == nil {
		return nil, notFound("word friend for user %d", userID)
	}

	summary := &domain.UserSummary{
		WordFriend: *friend,
		WordPower:  user.WordPower,
	}

	// No config row means the friend is at the top level.
	next, err := s.wordFriendRepo.GetLevelConfig(ctx, friend.Level+1)
	if err != nil {
		return nil, storeErr("load level config", err)
	}
	if next != nil {
		summary.NextLevelRequire = next.ExpRequire
	}

	if summary.LearningDays, err = s.masteryRepo.CountLearningDays(ctx, userID); err != nil {
		return nil, storeErr("count learning days", err)
	}
	if summary.MasteredWords, err = s.masteryRepo.CountMasteredWords(ctx, userID); err != nil {
		return nil, storeErr("count mastered words", err)
	}

	return summary, nil
}

// UpdatePreferences applies the non-nil fields of update
func (s *UserService) UpdatePreferences(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.User, error) {
	if update.Empty() {
		return nil, invalid("nothing to update")
	}
	if update.PreferredClassification != nil && strings.TrimSpace(*update.PreferredClassification) == "" {
		return nil, invalid("preferred classification must not be empty")
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, userID, update); err != nil {
		return nil, storeErr("update user", err)
	}
	return s.GetUser(ctx, userID)
}
