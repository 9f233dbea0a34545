package service

import (
	"context"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"go.uber.org/zap"
)

// AchievementService evaluates the achievement catalog and unlocks entries
type AchievementService struct {
	achievementRepo repository.AchievementRepository
	masteryRepo     repository.MasteryRepository
	userRepo        repository.UserRepository
	streaks         *StreakService
	logger          *zap.Logger
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	masteryRepo repository.MasteryRepository,
	userRepo repository.UserRepository,
	streaks *StreakService,
	logger *zap.Logger,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		masteryRepo:     masteryRepo,
		userRepo:        userRepo,
		streaks:         streaks,
		logger:          logger,
	}
}

// SweepResult summarizes one batch run over all users
type SweepResult struct {
	Users    int `json:"users"`
	Unlocked int `json:"unlocked"`
	Failed   int `json:"failed"`
}

// statsLoader fetches each metric at most once per evaluation
type statsLoader struct {
	s      *AchievementService
	userID int64
	stats  domain.LearningStats
	loaded map[domain.Metric]bool
	today  *domain.Day
}

func (l *statsLoader) day(ctx context.Context) (domain.Day, error) {
	if l.today == nil {
		today, err := l.s.masteryRepo.Today(ctx)
		if err != nil {
			return domain.Day{}, storeErr("read current date", err)
		}
		l.today = &today
	}
	return *l.today, nil
}

func (l *statsLoader) load(ctx context.Context, metric domain.Metric) error {
	if l.loaded[metric] {
		return nil
	}

	var err error
	switch metric {
	case domain.MetricStreak:
		today, err := l.day(ctx)
		if err != nil {
			return err
		}
		l.stats.Streak, err = l.s.streaks.streakAsOf(ctx, l.userID, today)
		if err != nil {
			return err
		}
	case domain.MetricMasteredWords:
		l.stats.MasteredWords, err = l.s.masteryRepo.CountMasteredWords(ctx, l.userID)
		if err != nil {
			return storeErr("count mastered words", err)
		}
	case domain.MetricMasteredToday:
		today, err := l.day(ctx)
		if err != nil {
			return err
		}
		l.stats.MasteredToday, err = l.s.masteryRepo.CountCreatedOn(ctx, l.userID, today)
		if err != nil {
			return storeErr("count today's mastery events", err)
		}
	}

	l.loaded[metric] = true
	return nil
}

// CheckAchievements evaluates every inactive catalog entry for the user and
// returns the names unlocked by this call. Already-active entries are skipped
// without evaluating their rule, so repeated calls are no-ops.
func (s *AchievementService) CheckAchievements(ctx context.Context, userID int64) ([]string, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	return s.evaluate(ctx, userID)
}

// evaluate runs the catalog for a user already known to exist
func (s *AchievementService) evaluate(ctx context.Context, userID int64) ([]string, error) {
	current, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list achievements", err)
	}

	active := make(map[string]bool, len(current))
	seeded := make(map[string]bool, len(current))
	for _, a := range current {
		active[a.Name] = a.Active
		seeded[a.Name] = true
	}

	loader := &statsLoader{s: s, userID: userID, loaded: make(map[domain.Metric]bool)}
	var unlocked []string

	for _, rule := range domain.AchievementCatalog {
		if active[rule.Name] {
			continue
		}

		if err := loader.load(ctx, rule.Metric); err != nil {
			return nil, err
		}
		if !rule.Satisfied(loader.stats) {
			continue
		}

		changed, err := s.achievementRepo.Activate(ctx, userID, rule.Name)
		if err != nil {
			return nil, storeErr("activate achievement", err)
		}
		if !changed && !seeded[rule.Name] {
			s.logger.Warn("Achievement row missing, cannot unlock",
				zap.Int64("user_id", userID),
				zap.String("achievement", rule.Name),
			)
			continue
		}
		if !changed {
			s.logger.Debug("Achievement already unlocked",
				zap.Int64("user_id", userID),
				zap.String("achievement", rule.Name),
				zap.NamedError("signal", domain.ErrAlreadySatisfied),
			)
			continue
		}

		s.logger.Info("Achievement unlocked",
			zap.Int64("user_id", userID),
			zap.String("achievement", rule.Name),
		)
		unlocked = append(unlocked, rule.Name)
	}

	return unlocked, nil
}

// CheckAllUsers runs CheckAchievements for every active user.
// A failure for one user is logged and counted; the sweep continues.
func (s *AchievementService) CheckAllUsers(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	s.logger.Info("Starting daily achievement sweep")

	ids, err := s.userRepo.ListActiveIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for achievement sweep", zap.Error(err))
		return result, storeErr("list users", err)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Users++
		unlocked, err := s.evaluate(ctx, id)
		if err != nil {
			result.Failed++
			s.logger.Error("Achievement check failed", zap.Int64("user_id", id), zap.Error(err))
			continue
		}
		result.Unlocked += len(unlocked)
	}

	s.logger.Info("Achievement sweep completed",
		zap.Int("users", result.Users),
		zap.Int("unlocked", result.Unlocked),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ListAchievements returns the user's achievements
func (s *AchievementService) ListAchievements(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	list, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list achievements", err)
	}
	return list, nil
}
