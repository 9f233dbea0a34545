package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"wordfriend/internal/domain"
)

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	var meanings string
	var picture sql.NullString
	err := row.Scan(
		&w.ID, &w.English, &meanings, &w.ExampleEN, &w.ExampleCN, &w.USPhone, &picture, &w.Classification,
	)
	if err != nil {
		return nil, err
	}
	w.Picture = picture.String
	w.Chinese = decodeMeanings(meanings)
	return &w, nil
}

// decodeMeanings reads the JSON array stored in word_cn; plain text becomes a single meaning
func decodeMeanings(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out
	}
	if raw == "" {
		return nil
	}
	return []string{raw}
}

// GetByID returns a word by id
func (r *WordRepo) GetByID(ctx context.Context, wordID int64) (*domain.Word, error) {
	query := `
		SELECT word_id, word_en, word_cn, example_en, example_cn, usphone, picture, classification
		FROM words
		WHERE word_id = $1
	`
	w, err := scanWord(conn(ctx, r.db).QueryRowContext(ctx, query, wordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// List returns words ordered by id
func (r *WordRepo) List(ctx context.Context, offset, limit int) ([]domain.Word, error) {
	query := `
		SELECT word_id, word_en, word_cn, example_en, example_cn, usphone, picture, classification
		FROM words
		ORDER BY word_id
		LIMIT $1 OFFSET $2
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}

	return words, rows.Err()
}

// CountByClassification returns the number of words in a classification
func (r *WordRepo) CountByClassification(ctx context.Context, classification string) (int, error) {
	query := `SELECT COUNT(*) FROM words WHERE classification = $1`

	var count int
	err := conn(ctx, r.db).QueryRowContext(ctx, query, classification).Scan(&count)
	return count, err
}
