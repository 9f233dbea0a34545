package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wordfriend/internal/domain"
)

// WordFriendRepo implements repository.WordFriendRepository
type WordFriendRepo struct {
	db *sql.DB
}

// NewWordFriendRepo creates a new word friend repository
func NewWordFriendRepo(db *sql.DB) *WordFriendRepo {
	return &WordFriendRepo{db: db}
}

func scanWordFriend(row rowScanner) (*domain.WordFriend, error) {
	var f domain.WordFriend
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Nickname, &f.Level, &f.Exp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a word friend and fills in its id
func (r *WordFriendRepo) Create(ctx context.Context, friend *domain.WordFriend) error {
	query := `
		INSERT INTO word_friends (user_id, name, nickname, level, exp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING word_friend_id
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		friend.UserID, friend.Name, friend.Nickname, friend.Level, friend.Exp,
	).Scan(&friend.ID)
}

// GetByIDForUpdate returns a word friend and locks its row
func (r *WordFriendRepo) GetByIDForUpdate(ctx context.Context, wordFriendID int64) (*domain.WordFriend, error) {
	query := `
		SELECT word_friend_id, user_id, name, nickname, level, exp
		FROM word_friends
		WHERE word_friend_id = $1
		FOR UPDATE
	`
	return scanWordFriend(conn(ctx, r.db).QueryRowContext(ctx, query, wordFriendID))
}

// GetFirstByUser returns the user's earliest word friend
func (r *WordFriendRepo) GetFirstByUser(ctx context.Context, userID int64) (*domain.WordFriend, error) {
	query := `
		SELECT word_friend_id, user_id, name, nickname, level, exp
		FROM word_friends
		WHERE user_id = $1
		ORDER BY word_friend_id
		LIMIT 1
	`
	return scanWordFriend(conn(ctx, r.db).QueryRowContext(ctx, query, userID))
}

// ListByUser returns all of the user's word friends
func (r *WordFriendRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WordFriend, error) {
	query := `
		SELECT word_friend_id, user_id, name, nickname, level, exp
		FROM word_friends
		WHERE user_id = $1
		ORDER BY word_friend_id
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []domain.WordFriend
	for rows.Next() {
		f, err := scanWordFriend(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, *f)
	}

	return friends, rows.Err()
}

// UpdateProgress stores a new level and experience
func (r *WordFriendRepo) UpdateProgress(ctx context.Context, wordFriendID int64, level, exp int) error {
	query := `UPDATE word_friends SET level = $1, exp = $2 WHERE word_friend_id = $3`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, level, exp, wordFriendID)
	return err
}

// GetLevelConfig returns the experience required to reach level
func (r *WordFriendRepo) GetLevelConfig(ctx context.Context, level int) (*domain.LevelConfig, error) {
	query := `SELECT exp_level, exp_require FROM word_friend_level_config WHERE exp_level = $1`

	var c domain.LevelConfig
	err := conn(ctx, r.db).QueryRowContext(ctx, query, level).Scan(&c.Level, &c.ExpRequire)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
