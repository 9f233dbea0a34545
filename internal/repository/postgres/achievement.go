package postgres

import (
	"context"
	"database/sql"

	"wordfriend/internal/domain"
)

// AchievementRepo implements repository.AchievementRepository
type AchievementRepo struct {
	db *sql.DB
}

// NewAchievementRepo creates a new achievement repository
func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// CreateBatch inserts achievements, filling in their ids
func (r *AchievementRepo) CreateBatch(ctx context.Context, achievements []domain.Achievement) error {
	query := `
		INSERT INTO user_achievements (user_id, name, description, icon, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	q := conn(ctx, r.db)
	for i := range achievements {
		a := &achievements[i]
		if err := q.QueryRowContext(ctx, query, a.UserID, a.Name, a.Description, a.Icon, a.Active).Scan(&a.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListByUser returns the user's achievements in seeding order
func (r *AchievementRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Achievement, error) {
	query := `
		SELECT id, user_id, name, description, icon, is_active
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Description, &a.Icon, &a.Active); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}

	return achievements, rows.Err()
}

// Activate sets is_active only while it is still false, so concurrent callers
// cannot both observe the transition
func (r *AchievementRepo) Activate(ctx context.Context, userID int64, name string) (bool, error) {
	query := `
		UPDATE user_achievements
		SET is_active = TRUE
		WHERE user_id = $1 AND name = $2 AND is_active = FALSE
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, userID, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
