package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"

	"go.uber.org/zap"
)

// LedgerService moves word power between wallets and keeps the hash chain
type LedgerService struct {
	tx         repository.Transactor
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	tx repository.Transactor,
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
	now func() time.Time,
) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		tx:         tx,
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		logger:     logger,
		now:        now,
	}
}

// Transfer debits sender, credits receiver and appends a chained entry, all in one transaction
func (s *LedgerService) Transfer(ctx context.Context, senderKey, receiverKey string, amount int64) (*domain.LedgerEntry, error) {
	senderKey = strings.TrimSpace(senderKey)
	receiverKey = strings.TrimSpace(receiverKey)
	if senderKey == "" || receiverKey == "" {
		return nil, invalid("sender and receiver wallets are required")
	}
	if senderKey == receiverKey {
		return nil, invalid("sender and receiver must differ")
	}
	if amount <= 0 {
		return nil, invalid("amount must be positive, got %d", amount)
	}

	var entry *domain.LedgerEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ledgerRepo.LockChain(ctx); err != nil {
			return storeErr("lock chain", err)
		}

		sender, err := s.userRepo.GetByWalletKeyForUpdate(ctx, senderKey)
		if err != nil {
			return storeErr("load sender", err)
		}
		if sender == nil {
			return notFound("wallet %s", senderKey)
		}
		receiver, err := s.userRepo.GetByWalletKeyForUpdate(ctx, receiverKey)
		if err != nil {
			return storeErr("load receiver", err)
		}
		if receiver == nil {
			return notFound("wallet %s", receiverKey)
		}

		if sender.WordPower < amount {
			return fmt.Errorf("%w: wallet %s holds %d, needs %d",
				domain.ErrInsufficientBalance, senderKey, sender.WordPower, amount)
		}

		if err := s.userRepo.AddWordPower(ctx, sender.UserID, -amount); err != nil {
			return storeErr("debit sender", err)
		}
		if err := s.userRepo.AddWordPower(ctx, receiver.UserID, amount); err != nil {
			return storeErr("credit receiver", err)
		}

		prevHash := domain.GenesisHash
		last, err := s.ledgerRepo.GetLast(ctx)
		if err != nil {
			return storeErr("load chain head", err)
		}
		if last != nil {
			prevHash = last.CurrHash
		}

		// Stored timestamps keep microseconds; hash what will be read back.
		createdAt := s.now().UTC().Truncate(time.Microsecond)
		entry = &domain.LedgerEntry{
			TxID:        domain.NewTxID(createdAt),
			SenderKey:   senderKey,
			ReceiverKey: receiverKey,
			Amount:      amount,
			CreatedAt:   createdAt,
		}
		entry.Seal(prevHash)

		if err := s.ledgerRepo.Append(ctx, entry); err != nil {
			return storeErr("append entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Word power transferred",
		zap.String("tx_id", entry.TxID),
		zap.String("sender", senderKey),
		zap.String("receiver", receiverKey),
		zap.Int64("amount", amount),
	)
	return entry, nil
}

// History returns the wallet's entries, newest first
func (s *LedgerService) History(ctx context.Context, walletKey string) ([]domain.LedgerEntry, error) {
	if strings.TrimSpace(walletKey) == "" {
		return nil, invalid("wallet is required")
	}
	entries, err := s.ledgerRepo.ListByWallet(ctx, walletKey)
	if err != nil {
		return nil, storeErr("list wallet entries", err)
	}
	return entries, nil
}

// VerifyChain recomputes every digest and link in creation order
func (s *LedgerService) VerifyChain(ctx context.Context) (*domain.ChainReport, error) {
	entries, err := s.ledgerRepo.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list chain", err)
	}

	report := domain.VerifyChain(entries)
	if !report.Valid {
		s.logger.Warn("Ledger chain broken",
			zap.String("tx_id", report.BrokenAt),
			zap.String("reason", report.Reason),
		)
	}
	return &report, nil
}
