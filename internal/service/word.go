package service

import (
	"context"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"
)

const wordBatchSize = 10

// WordItem is a word as delivered to the client
type WordItem struct {
	domain.Word
	SpeechURL string `json:"speech_url"`
}

// WordService handles word delivery and learning progress
type WordService struct {
	wordRepo    repository.WordRepository
	masteryRepo repository.MasteryRepository
	userRepo    repository.UserRepository
}

// NewWordService creates a new word service
func NewWordService(
	wordRepo repository.WordRepository,
	masteryRepo repository.MasteryRepository,
	userRepo repository.UserRepository,
) *WordService {
	return &WordService{wordRepo: wordRepo, masteryRepo: masteryRepo, userRepo: userRepo}
}

// NextWords returns the next batch of words, skipping as many as the user has mastered
func (s *WordService) NextWords(ctx context.Context, userID int64) ([]WordItem, error) {
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	offset, err := s.masteryRepo.CountMasteredWords(ctx, userID)
	if err != nil {
		return nil, storeErr("count mastered words", err)
	}

	words, err := s.wordRepo.List(ctx, offset, wordBatchSize)
	if err != nil {
		return nil, storeErr("list words", err)
	}

	items := make([]WordItem, 0, len(words))
	for _, w := range words {
		items = append(items, WordItem{Word: w, SpeechURL: w.SpeechURL()})
	}
	return items, nil
}

// LearningPercent returns the share of the classification the user has mastered
func (s *WordService) LearningPercent(ctx context.Context, userID int64, classification string) (int, error) {
	classification = strings.TrimSpace(classification)
	if classification == "" {
		return 0, invalid("classification is required")
	}
	if err := requireUser(ctx, s.userRepo, userID); err != nil {
		return 0, err
	}

	total, err := s.wordRepo.CountByClassification(ctx, classification)
	if err != nil {
		return 0, storeErr("count words", err)
	}
	if total == 0 {
		return 0, nil
	}

	mastered, err := s.masteryRepo.CountMasteredByType(ctx, userID, classification)
	if err != nil {
		return 0, storeErr("count mastered words", err)
	}
	return domain.LearningPercent(mastered, total), nil
}
