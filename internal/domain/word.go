package domain

import (
	"net/url"
	"time"
)

// Word is a flashcard entry
type Word struct {
	ID             int64    `json:"word_id"`
	English        string   `json:"word_en"`
	Chinese        []string `json:"word_cn"`
	ExampleEN      string   `json:"example_en"`
	ExampleCN      string   `json:"example_cn"`
	USPhone        string   `json:"usphone"`
	Picture        string   `json:"picture,omitempty"`
	Classification string   `json:"classification"`
}

// SpeechURL returns the pronunciation audio address for the word
func (w Word) SpeechURL() string {
	return "https://dict.youdao.com/dictvoice?audio=" + url.QueryEscape(w.English) + "&type=2"
}

// MasteryEvent records whether a user has learned a word under a classification.
// There is at most one event per (UserID, WordID, WordType).
type MasteryEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	WordID    int64     `json:"word_id"`
	WordType  string    `json:"word_type"`
	Mastered  bool      `json:"mastered"`
	CreatedAt time.Time `json:"created_at"`
}

// LearningPercent returns mastered/total as a rounded percentage; zero when total is zero
func LearningPercent(mastered, total int) int {
	if total <= 0 {
		return 0
	}
	return (mastered*200 + total) / (total * 2)
}
