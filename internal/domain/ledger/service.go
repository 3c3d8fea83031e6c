package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/domain/account"
	"pybank/internal/event"
	"pybank/internal/infrastructure/monitoring"
	"pybank/internal/pkg/clock"
	"pybank/internal/pkg/sequence"
)

type LedgerService interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, actor string) (*Transaction, error)
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, actor string) (*Transaction, error)
	Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, actor string) (*Transaction, error)

	Transactions(ctx context.Context, accountNumber string) ([]Transaction, error)
	TransactionsByDate(ctx context.Context, start, end time.Time, accountNumber string) ([]Transaction, error)
	TransactionsByType(ctx context.Context, kind Kind, accountNumber string) ([]Transaction, error)
	TransactionsByUser(ctx context.Context, user, accountNumber string) ([]Transaction, error)
	TransactionsByCustomer(ctx context.Context, customerID, accountNumber string) ([]Transaction, error)
}

var _ LedgerService = (*ledgerService)(nil)

type ledgerService struct {
	txRepo   Repository
	accounts account.Repository
	pub      event.Publisher
	clk      clock.Clock
	logger   *slog.Logger

	depositSeq  *sequence.Generator
	withdrawSeq *sequence.Generator
	transferSeq *sequence.Generator
}

// NewLedgerService seeds the per-kind transaction ID generators from the
// records already in the log so IDs stay monotonic across process runs.
func NewLedgerService(txRepo Repository, accounts account.Repository, pub event.Publisher, clk clock.Clock, logger *slog.Logger) (LedgerService, error) {
	if txRepo == nil || accounts == nil {
		panic("ledger repositories cannot be nil")
	}
	if clk == nil {
		panic("clock cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLedgerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher()
	}

	s := &ledgerService{
		txRepo:      txRepo,
		accounts:    accounts,
		pub:         pub,
		clk:         clk,
		logger:      logger.With(slog.String("component", "ledgerService")),
		depositSeq:  sequence.NewGenerator("TXN_DEPO_", 1),
		withdrawSeq: sequence.NewGenerator("TXN_WITH_", 1),
		transferSeq: sequence.NewGenerator("TXN_TRAN_", 1),
	}

	existing, err := txRepo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to seed transaction numbering: %w", err)
	}
	for _, tx := range existing {
		s.depositSeq.Seed(tx.ID)
		s.withdrawSeq.Seed(tx.ID)
		s.transferSeq.Seed(tx.ID)
	}

	return s, nil
}

// Deposit mutates the account, persists it, then appends the audit record.
// On mutation failure nothing is written and no record is appended.
func (s *ledgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, actor string) (*Transaction, error) {
	logCtx := s.logger.With(slog.String("accountNumber", accountNumber), slog.String("actor", actor))
	logCtx.InfoContext(ctx, "Processing deposit", slog.String("amount", amount.String()))

	acc, err := s.accounts.Get(ctx, accountNumber)
	if err != nil {
		logCtx.WarnContext(ctx, "Deposit aborted: account lookup failed", slog.Any("error", err))
		return nil, err
	}
	if err := acc.Deposit(amount); err != nil {
		logCtx.WarnContext(ctx, "Deposit rejected by account", slog.Any("error", err))
		return nil, err
	}
	if err := s.accounts.Update(ctx, acc); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist account after deposit", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist deposit: %w", err)
	}

	tx := Transaction{
		ID:            s.depositSeq.NextID(),
		AccountNumber: accountNumber,
		Type:          KindDeposit,
		Amount:        amount,
		User:          actor,
		Timestamp:     clock.At(s.clk.Now()),
	}
	return s.record(ctx, logCtx, tx)
}

// Withdraw follows the same pattern as Deposit; the account's own floor rule
// decides whether the debit is allowed.
func (s *ledgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, actor string) (*Transaction, error) {
	logCtx := s.logger.With(slog.String("accountNumber", accountNumber), slog.String("actor", actor))
	logCtx.InfoContext(ctx, "Processing withdrawal", slog.String("amount", amount.String()))

	acc, err := s.accounts.Get(ctx, accountNumber)
	if err != nil {
		logCtx.WarnContext(ctx, "Withdrawal aborted: account lookup failed", slog.Any("error", err))
		return nil, err
	}
	if err := acc.Withdraw(amount); err != nil {
		logCtx.WarnContext(ctx, "Withdrawal rejected by account", slog.Any("error", err))
		return nil, err
	}
	if err := s.accounts.Update(ctx, acc); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist account after withdrawal", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist withdrawal: %w", err)
	}

	tx := Transaction{
		ID:            s.withdrawSeq.NextID(),
		AccountNumber: accountNumber,
		Type:          KindWithdraw,
		Amount:        amount,
		User:          actor,
		Timestamp:     clock.At(s.clk.Now()),
	}
	return s.record(ctx, logCtx, tx)
}

// Transfer resolves both accounts before touching either balance, so the
// deposit leg cannot fail after the source has been debited. Both mutations
// happen in memory first; persistence starts only once both have succeeded.
func (s *ledgerService) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal, actor string) (*Transaction, error) {
	logCtx := s.logger.With(
		slog.String("fromAccountNumber", fromAccountNumber),
		slog.String("toAccountNumber", toAccountNumber),
		slog.String("actor", actor))
	logCtx.InfoContext(ctx, "Processing transfer", slog.String("amount", amount.String()))

	from, err := s.accounts.Get(ctx, fromAccountNumber)
	if err != nil {
		logCtx.WarnContext(ctx, "Transfer aborted: source account lookup failed", slog.Any("error", err))
		return nil, err
	}
	to, err := s.accounts.Get(ctx, toAccountNumber)
	if err != nil {
		logCtx.WarnContext(ctx, "Transfer aborted: destination account lookup failed", slog.Any("error", err))
		return nil, err
	}

	if err := from.Withdraw(amount); err != nil {
		logCtx.WarnContext(ctx, "Transfer rejected by source account", slog.Any("error", err))
		return nil, err
	}
	if err := to.Deposit(amount); err != nil {
		// Unreachable while deposits only reject non-positive amounts, which
		// the successful withdrawal has already excluded.
		logCtx.ErrorContext(ctx, "Transfer deposit leg failed after withdrawal", slog.Any("error", err))
		return nil, err
	}

	if err := s.accounts.Update(ctx, from); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist source account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}
	if err := s.accounts.Update(ctx, to); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist destination account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}

	tx := Transaction{
		ID:                s.transferSeq.NextID(),
		FromAccountNumber: fromAccountNumber,
		ToAccountNumber:   toAccountNumber,
		Type:              KindTransfer,
		Amount:            amount,
		User:              actor,
		Timestamp:         clock.At(s.clk.Now()),
	}
	return s.record(ctx, logCtx, tx)
}

func (s *ledgerService) record(ctx context.Context, logCtx *slog.Logger, tx Transaction) (*Transaction, error) {
	if err := s.txRepo.Append(ctx, tx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to append transaction record", slog.Any("error", err))
		return nil, fmt.Errorf("failed to append transaction record: %w", err)
	}
	monitoring.RecordTransaction(string(tx.Type))

	recorded := event.TransactionRecordedEvent{
		TransactionID:     tx.ID,
		TransactionType:   string(tx.Type),
		AccountNumber:     tx.AccountNumber,
		FromAccountNumber: tx.FromAccountNumber,
		ToAccountNumber:   tx.ToAccountNumber,
		Amount:            tx.Amount.String(),
		User:              tx.User,
		Timestamp:         tx.Timestamp.Time,
	}
	if pubErr := s.pub.PublishTransactionRecorded(ctx, recorded); pubErr != nil {
		logCtx.ErrorContext(ctx, "Transaction recorded, but FAILED to publish event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Transaction recorded", slog.String("transactionID", tx.ID))
	return &tx, nil
}

// Transactions returns the full log, or only the records touching the given
// account when accountNumber is non-empty.
func (s *ledgerService) Transactions(ctx context.Context, accountNumber string) ([]Transaction, error) {
	return s.filter(ctx, accountNumber, nil)
}

// TransactionsByDate returns records with timestamps inside [start, end],
// inclusive on both ends.
func (s *ledgerService) TransactionsByDate(ctx context.Context, start, end time.Time, accountNumber string) ([]Transaction, error) {
	return s.filter(ctx, accountNumber, func(tx Transaction) bool {
		ts := tx.Timestamp.Time
		return !ts.Before(start) && !ts.After(end)
	})
}

func (s *ledgerService) TransactionsByType(ctx context.Context, kind Kind, accountNumber string) ([]Transaction, error) {
	return s.filter(ctx, accountNumber, func(tx Transaction) bool {
		return tx.Type == kind
	})
}

func (s *ledgerService) TransactionsByUser(ctx context.Context, user, accountNumber string) ([]Transaction, error) {
	return s.filter(ctx, accountNumber, func(tx Transaction) bool {
		return tx.User == user
	})
}

// TransactionsByCustomer resolves the customer's account numbers first, then
// matches records touching any of them.
func (s *ledgerService) TransactionsByCustomer(ctx context.Context, customerID, accountNumber string) ([]Transaction, error) {
	accounts, err := s.accounts.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customer accounts for transaction query",
			slog.String("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to resolve accounts for customer %s: %w", customerID, err)
	}
	numbers := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		numbers[acc.Number()] = struct{}{}
	}
	return s.filter(ctx, accountNumber, func(tx Transaction) bool {
		_, ok1 := numbers[tx.AccountNumber]
		_, ok2 := numbers[tx.FromAccountNumber]
		_, ok3 := numbers[tx.ToAccountNumber]
		return ok1 || ok2 || ok3
	})
}

func (s *ledgerService) filter(ctx context.Context, accountNumber string, pred func(Transaction) bool) ([]Transaction, error) {
	all, err := s.txRepo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read transaction log", slog.Any("error", err))
		return nil, fmt.Errorf("failed to read transaction log: %w", err)
	}

	matched := make([]Transaction, 0, len(all))
	for _, tx := range all {
		if pred != nil && !pred(tx) {
			continue
		}
		if accountNumber != "" && !tx.Touches(accountNumber) {
			continue
		}
		matched = append(matched, tx)
	}
	return matched, nil
}
