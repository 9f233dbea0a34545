package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wordfriend/internal/domain"
)

// MasteryRepo implements repository.MasteryRepository
type MasteryRepo struct {
	db *sql.DB
}

// NewMasteryRepo creates a new mastery repository
func NewMasteryRepo(db *sql.DB) *MasteryRepo {
	return &MasteryRepo{db: db}
}

// Upsert records the mastery flag for (user, word, type), toggling an existing row in place
func (r *MasteryRepo) Upsert(ctx context.Context, event *domain.MasteryEvent) error {
	query := `
		INSERT INTO user_word_mastery (user_id, word_id, word_type, mastered)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, word_id, word_type)
		DO UPDATE SET mastered = EXCLUDED.mastered
		RETURNING id, created_at
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		event.UserID, event.WordID, event.WordType, event.Mastered,
	).Scan(&event.ID, &event.CreatedAt)
}

// GetLearningDates returns the distinct dates on which the user has a mastery event.
// Values that cannot be read as a date are skipped.
func (r *MasteryRepo) GetLearningDates(ctx context.Context, userID int64) ([]domain.Day, error) {
	query := `
		SELECT DISTINCT DATE(created_at)
		FROM user_word_mastery
		WHERE user_id = $1
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if day, ok := toDay(raw); ok {
			days = append(days, day)
		}
	}

	return days, rows.Err()
}

func toDay(raw any) (domain.Day, bool) {
	switch v := raw.(type) {
	case time.Time:
		return domain.DayOf(v), true
	case string:
		d, err := domain.ParseDay(v)
		return d, err == nil
	case []byte:
		d, err := domain.ParseDay(string(v))
		return d, err == nil
	}
	return domain.Day{}, false
}

// Today returns the current date in the store's session timezone, the same
// zone DATE(created_at) is evaluated in
func (r *MasteryRepo) Today(ctx context.Context) (domain.Day, error) {
	var raw any
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT CURRENT_DATE`).Scan(&raw); err != nil {
		return domain.Day{}, err
	}
	day, ok := toDay(raw)
	if !ok {
		return domain.Day{}, fmt.Errorf("unexpected current date value %v", raw)
	}
	return day, nil
}

// CountMasteredWords returns the number of distinct words the user has mastered
func (r *MasteryRepo) CountMasteredWords(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT word_id)
		FROM user_word_mastery
		WHERE user_id = $1 AND mastered = TRUE
	`

	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// CountMasteredByType returns the number of mastered words under one classification
func (r *MasteryRepo) CountMasteredByType(ctx context.Context, userID int64, wordType string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_word_mastery
		WHERE user_id = $1 AND word_type = $2 AND mastered = TRUE
	`

	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, wordType).Scan(&count)
	return count, err
}

// CountCreatedOn returns the number of mastery events created on day
func (r *MasteryRepo) CountCreatedOn(ctx context.Context, userID int64, day domain.Day) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_word_mastery
		WHERE user_id = $1 AND DATE(created_at) = $2::date
	`

	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID, day.DateString()).Scan(&count)
	return count, err
}

// CountLearningDays returns the number of distinct dates with mastery events
func (r *MasteryRepo) CountLearningDays(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT DATE(created_at))
		FROM user_word_mastery
		WHERE user_id = $1
	`

	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}
