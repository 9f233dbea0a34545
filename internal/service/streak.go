package service

import (
	"context"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"
)

// StreakService derives consecutive learning days from mastery events
type StreakService struct {
	masteryRepo repository.MasteryRepository
	userRepo    repository.UserRepository
}

// NewStreakService creates a new streak service
func NewStreakService(masteryRepo repository.MasteryRepository, userRepo repository.UserRepository) *StreakService {
	return &StreakService{masteryRepo: masteryRepo, userRepo: userRepo}
}

// CalculateStreak returns the user's current streak in days.
// "Today" is the record store's date so it matches how learning dates are bucketed.
func (s *StreakService) CalculateStreak(ctx context.Context, userID int64) (int, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return 0, err
	}

	today, err := s.masteryRepo.Today(ctx)
	if err != nil {
		return 0, storeErr("read current date", err)
	}
	return s.streakAsOf(ctx, userID, today)
}

func (s *StreakService) streakAsOf(ctx context.Context, userID int64, today domain.Day) (int, error) {
	dates, err := s.masteryRepo.GetLearningDates(ctx, userID)
	if err != nil {
		return 0, storeErr("load learning dates", err)
	}
	return domain.CalculateStreak(dates, today), nil
}
