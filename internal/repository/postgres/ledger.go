package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wordfriend/internal/domain"
)

// chainLockKey is the advisory lock serializing ledger appends
const chainLockKey = 7_345_001

const ledgerColumns = `seq, tx_id, sender_key, receiver_key, amount, created_at, prev_hash, curr_hash`

// LedgerRepo implements repository.LedgerRepository
type LedgerRepo struct {
	db *sql.DB
}

// NewLedgerRepo creates a new ledger repository
func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func scanEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(&e.Seq, &e.TxID, &e.SenderKey, &e.ReceiverKey, &e.Amount, &e.CreatedAt, &e.PrevHash, &e.CurrHash)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// LockChain takes a transaction-scoped advisory lock; it must run inside a transaction
func (r *LedgerRepo) LockChain(ctx context.Context) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, chainLockKey)
	return err
}

// GetLast returns the most recently appended entry, or nil for an empty chain
func (r *LedgerRepo) GetLast(ctx context.Context) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries ORDER BY seq DESC LIMIT 1`
	e, err := scanEntry(conn(ctx, r.db).QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Append inserts a sealed entry and fills in its sequence number
func (r *LedgerRepo) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (tx_id, sender_key, receiver_key, amount, created_at, prev_hash, curr_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`
	return conn(ctx, r.db).QueryRowContext(ctx, query,
		entry.TxID,
		entry.SenderKey,
		entry.ReceiverKey,
		entry.Amount,
		entry.CreatedAt,
		entry.PrevHash,
		entry.CurrHash,
	).Scan(&entry.Seq)
}

// ListByWallet returns entries sent or received by the wallet, newest first
func (r *LedgerRepo) ListByWallet(ctx context.Context, walletKey string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE sender_key = $1 OR receiver_key = $1
		ORDER BY seq DESC
	`
	return r.list(ctx, query, walletKey)
}

// ListAll returns the whole chain in creation order
func (r *LedgerRepo) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries ORDER BY seq`
	return r.list(ctx, query)
}

func (r *LedgerRepo) list(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}
