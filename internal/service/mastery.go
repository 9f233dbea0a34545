package service

import (
	"context"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"
)

// MasteryService records mastery events and triggers achievement checks
type MasteryService struct {
	tx           repository.Transactor
	masteryRepo  repository.MasteryRepository
	userRepo     repository.UserRepository
	wordRepo     repository.WordRepository
	achievements *AchievementService
}

// NewMasteryService creates a new mastery service
func NewMasteryService(
	tx repository.Transactor,
	masteryRepo repository.MasteryRepository,
	userRepo repository.UserRepository,
	wordRepo repository.WordRepository,
	achievements *AchievementService,
) *MasteryService {
	return &MasteryService{
		tx:           tx,
		masteryRepo:  masteryRepo,
		userRepo:     userRepo,
		wordRepo:     wordRepo,
		achievements: achievements,
	}
}

// MarkResult is the outcome of recording a mastery event
type MarkResult struct {
	Event    domain.MasteryEvent `json:"event"`
	Unlocked []string            `json:"unlocked"`
}

// MarkMastered sets the mastered flag for (user, word, wordType) and runs the
// achievement check in the same transaction
func (s *MasteryService) MarkMastered(ctx context.Context, userID, wordID int64, wordType string, mastered bool) (*MarkResult, error) {
	wordType = strings.TrimSpace(wordType)
	if wordType == "" {
		return nil, invalid("word type is required")
	}

	result := &MarkResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return storeErr("load user", err)
		}
		if user == nil {
			return notFound("user %d", userID)
		}

		word, err := s.wordRepo.GetByID(ctx, wordID)
		if err != nil {
			return storeErr("load word", err)
		}
		if word == nil {
			return notFound("word %d", wordID)
		}

		event := domain.MasteryEvent{UserID: userID, WordID: wordID, WordType: wordType, Mastered: mastered}
		if err := s.masteryRepo.Upsert(ctx, &event); err != nil {
			return storeErr("record mastery", err)
		}
		result.Event = event

		unlocked, err := s.achievements.evaluate(ctx, userID)
		if err != nil {
			return err
		}
		result.Unlocked = unlocked
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TodayMasteredCount returns the number of mastery events the user created today
func (s *MasteryService) TodayMasteredCount(ctx context.Context, userID int64) (int, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return 0, err
	}

	today, err := s.masteryRepo.Today(ctx)
	if err != nil {
		return 0, storeErr("read current date", err)
	}

	count, err := s.masteryRepo.CountCreatedOn(ctx, userID, today)
	if err != nil {
		return 0, storeErr("count today's mastery events", err)
	}
	return count, nil
}
