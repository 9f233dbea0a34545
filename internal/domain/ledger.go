package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GenesisHash is the previous hash of the first ledger entry
const GenesisHash = "0"

// LedgerEntry is one append-only word-power transfer, linked to its predecessor
type LedgerEntry struct {
	Seq         int64     `json:"seq"`
	TxID        string    `json:"tx_id"`
	SenderKey   string    `json:"sender_key"`
	ReceiverKey string    `json:"receiver_key"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	PrevHash    string    `json:"prev_hash"`
	CurrHash    string    `json:"curr_hash"`
}

// NewTxID returns a 16 hex character identifier derived from the current time and a random UUID
func NewTxID(now time.Time) string {
	id := uuid.New()
	sum := sha256.Sum256(append([]byte(strconv.FormatInt(now.UnixNano(), 10)), id[:]...))
	return hex.EncodeToString(sum[:])[:16]
}

// NewWalletKey returns a fresh wallet key
func NewWalletKey() string {
	return NewTxID(time.Now())
}

// ComputeHash digests the entry's content together with its previous hash
func (e LedgerEntry) ComputeHash() string {
	payload := e.TxID +
		e.SenderKey +
		e.ReceiverKey +
		strconv.FormatInt(e.Amount, 10) +
		e.CreatedAt.UTC().Format(time.RFC3339Nano) +
		e.PrevHash
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Seal sets PrevHash and CurrHash for an entry appended after prevHash
func (e *LedgerEntry) Seal(prevHash string) {
	e.PrevHash = prevHash
	e.CurrHash = e.ComputeHash()
}

// ChainReport is the result of walking the ledger in creation order
type ChainReport struct {
	Entries  int    `json:"entries"`
	Valid    bool   `json:"valid"`
	BrokenAt string `json:"broken_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// VerifyChain checks linkage and digests of entries given in creation order.
// It detects accidental corruption only: nothing stops a store operator from
// rewriting the whole chain consistently.
func VerifyChain(entries []LedgerEntry) ChainReport {
	report := ChainReport{Entries: len(entries), Valid: true}
	prev := GenesisHash
	for _, e := range entries {
		if e.PrevHash != prev {
			report.Valid = false
			report.BrokenAt = e.TxID
			report.Reason = "previous hash does not match preceding entry"
			return report
		}
		if e.ComputeHash() != e.CurrHash {
			report.Valid = false
			report.BrokenAt = e.TxID
			report.Reason = "hash does not match entry content"
			return report
		}
		prev = e.CurrHash
	}
	return report
}
