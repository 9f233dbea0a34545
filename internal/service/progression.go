package service

import (
	"context"
	"fmt"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"go.uber.org/zap"
)

// maxExperienceDelta caps a single award so progress stays within the stored column range
const maxExperienceDelta = 1_000_000

// ProgressionService levels word friends and manages their purchase
type ProgressionService struct {
	tx             repository.Transactor
	wordFriendRepo repository.WordFriendRepository
	userRepo       repository.UserRepository
	price          int64
	logger         *zap.Logger
}

// NewProgressionService creates a new progression service.
// price is the word power charged for each purchased word friend.
func NewProgressionService(
	tx repository.Transactor,
	wordFriendRepo repository.WordFriendRepository,
	userRepo repository.UserRepository,
	price int64,
	logger *zap.Logger,
) *ProgressionService {
	return &ProgressionService{
		tx:             tx,
		wordFriendRepo: wordFriendRepo,
		userRepo:       userRepo,
		price:          price,
		logger:         logger,
	}
}

// AddExperience adds delta experience to a word friend whose current level is
// level, advancing at most one level, and credits delta to the owner's word
// power. Everything happens in one transaction.
func (s *ProgressionService) AddExperience(ctx context.Context, wordFriendID int64, delta, level int) (*domain.LevelProgress, error) {
	if delta < 0 {
		return nil, invalid("experience delta must not be negative, got %d", delta)
	}
	if delta > maxExperienceDelta {
		return nil, invalid("experience delta must not exceed %d, got %d", maxExperienceDelta, delta)
	}
	if level < 0 {
		return nil, invalid("level must not be negative, got %d", level)
	}

	var progress domain.LevelProgress
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		friend, err := s.wordFriendRepo.GetByIDForUpdate(ctx, wordFriendID)
		if err != nil {
			return storeErr("load word friend", err)
		}
		if friend == nil {
			return notFound("word friend %d", wordFriendID)
		}
		if friend.Level != level {
			return invalid("word friend %d is at level %d, not %d", wordFriendID, friend.Level, level)
		}

		next, err := s.wordFriendRepo.GetLevelConfig(ctx, level+1)
		if err != nil {
			return storeErr("load level config", err)
		}
		if next == nil {
			return notFound("level config for level %d", level+1)
		}

		progress, err = domain.ApplyExperience(level, friend.Exp, delta, next.ExpRequire)
		if err != nil {
			return err
		}
		progress.WordFriendID = wordFriendID

		if err := s.wordFriendRepo.UpdateProgress(ctx, wordFriendID, progress.Level, progress.Exp); err != nil {
			return storeErr("update word friend", err)
		}
		if err := s.userRepo.AddWordPower(ctx, friend.UserID, int64(delta)); err != nil {
			return storeErr("credit word power", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if progress.LeveledUp {
		s.logger.Info("Word friend leveled up",
			zap.Int64("word_friend_id", wordFriendID),
			zap.Int("level", progress.Level),
		)
	}
	return &progress, nil
}

// PurchaseWordFriend charges the configured price and creates a new level-0 word friend
func (s *ProgressionService) PurchaseWordFriend(ctx context.Context, userID int64, name, nickname string) (*domain.WordFriend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("word friend name is required")
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = name
	}

	friend := &domain.WordFriend{UserID: userID, Name: name, Nickname: nickname}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return storeErr("load user", err)
		}
		if user == nil {
			return notFound("user %d", userID)
		}
		if user.WordPower < s.price {
			return fmt.Errorf("%w: word friend costs %d, balance is %d", domain.ErrInsufficientBalance, s.price, user.WordPower)
		}

		if s.price > 0 {
			if err := s.userRepo.AddWordPower(ctx, userID, -s.price); err != nil {
				return storeErr("debit word power", err)
			}
		}
		if err := s.wordFriendRepo.Create(ctx, friend); err != nil {
			return storeErr("create word friend", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return friend, nil
}

// ListWordFriends returns all of the user's word friends
func (s *ProgressionService) ListWordFriends(ctx context.Context, userID int64) ([]domain.WordFriend, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	friends, err := s.wordFriendRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list word friends", err)
	}
	return friends, nil
}
