package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `user_id, username, email, avatar_url, wechat_openid, wechat_session_key,
		wallet_key, word_power_amount, preferred_classification, is_deleted, created_at`

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var email, avatar sql.NullString
	err := row.Scan(
		&u.UserID, &u.Username, &email, &avatar, &u.WechatOpenID, &u.WechatSessionKey,
		&u.WalletKey, &u.WordPower, &u.PreferredClassification, &u.Deleted, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Email = email.String
	u.AvatarURL = avatar.String
	return &u, nil
}

// Create inserts a user and fills in its id and creation time
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, wechat_openid, wechat_session_key, wallet_key,
			word_power_amount, preferred_classification)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, created_at
	`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		user.Username,
		user.WechatOpenID,
		user.WechatSessionKey,
		user.WalletKey,
		user.WordPower,
		user.PreferredClassification,
	).Scan(&user.UserID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// GetByID returns a non-deleted user
func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND is_deleted = FALSE`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, userID))
}

// GetByOpenID returns the user bound to an external identity
func (r *UserRepo) GetByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wechat_openid = $1 AND is_deleted = FALSE`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, openID))
}

// GetByIDForUpdate returns a user and locks its row until the transaction ends
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND is_deleted = FALSE FOR UPDATE`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, userID))
}

// GetByWalletKeyForUpdate resolves a wallet and locks its owner row
func (r *UserRepo) GetByWalletKeyForUpdate(ctx context.Context, walletKey string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_key = $1 AND is_deleted = FALSE FOR UPDATE`
	return scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, walletKey))
}

// UpdateSessionKey stores the latest session key from the identity provider
func (r *UserRepo) UpdateSessionKey(ctx context.Context, userID int64, sessionKey string) error {
	query := `UPDATE users SET wechat_session_key = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, sessionKey, userID)
	return err
}

// Update applies the non-nil fields of update
func (r *UserRepo) Update(ctx context.Context, userID int64, update domain.UserUpdate) error {
	var sets []string
	var args []any
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("email", update.Email)
	add("avatar_url", update.AvatarURL)
	add("preferred_classification", update.PreferredClassification)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf(
		"UPDATE users SET %s, updated_at = NOW() WHERE user_id = $%d AND is_deleted = FALSE",
		strings.Join(sets, ", "), len(args),
	)
	_, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}

// AddWordPower adjusts the balance by delta, which may be negative
func (r *UserRepo) AddWordPower(ctx context.Context, userID int64, delta int64) error {
	query := `
		UPDATE users
		SET word_power_amount = word_power_amount + $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, delta, userID)
	return err
}

// ListActiveIDs returns ids of all non-deleted users
func (r *UserRepo) ListActiveIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT user_id FROM users WHERE is_deleted = FALSE ORDER BY user_id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
