package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
	"pybank/internal/pkg/sequence"
)

type AccountService interface {
	OpenChecking(ctx context.Context, customerID, customerName string, initialBalance, overdraftLimit decimal.Decimal) (*Checking, error)
	OpenSavings(ctx context.Context, customerID, customerName string, initialBalance, interestRate decimal.Decimal, withdrawalLimit int) (*Savings, error)
	OpenLoan(ctx context.Context, customerID, customerName string, initialBalance, loanAmount, interestRate decimal.Decimal, termMonths int) (*Loan, error)
	GetAccount(ctx context.Context, accountNumber string) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	ListCustomerAccounts(ctx context.Context, customerID string) ([]Account, error)
	UpdateAccount(ctx context.Context, acc Account) error
	CloseAccount(ctx context.Context, accountNumber string) error
}

var _ AccountService = (*accountService)(nil)

type accountService struct {
	repo   Repository
	seq    *sequence.Generator
	clk    clock.Clock
	logger *slog.Logger
}

// NewAccountService seeds the account-number generator from the numbers
// already on disk so numbering stays monotonic across process runs.
func NewAccountService(repo Repository, seq *sequence.Generator, clk clock.Clock, logger *slog.Logger) (AccountService, error) {
	if repo == nil {
		panic("account repository cannot be nil")
	}
	if seq == nil || clk == nil {
		panic("sequence generator and clock cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewAccountService, using default stderr handler")
	}

	existing, err := repo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to seed account numbering: %w", err)
	}
	for _, acc := range existing {
		seq.Seed(acc.Number())
	}

	return &accountService{
		repo:   repo,
		seq:    seq,
		clk:    clk,
		logger: logger.With(slog.String("component", "accountService")),
	}, nil
}

func (s *accountService) OpenChecking(ctx context.Context, customerID, customerName string, initialBalance, overdraftLimit decimal.Decimal) (*Checking, error) {
	s.logger.InfoContext(ctx, "Opening checking account", slog.String("customerID", customerID))

	acc, err := NewChecking(s.seq.NextID(), customerID, customerName, initialBalance, overdraftLimit, s.clk.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "Checking account validation failed", slog.Any("error", err))
		return nil, err
	}
	if err := s.repo.Add(ctx, acc); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to add checking account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add account: %w", err)
	}
	s.logger.InfoContext(ctx, "Checking account opened", slog.String("accountNumber", acc.Number()))
	return acc, nil
}

func (s *accountService) OpenSavings(ctx context.Context, customerID, customerName string, initialBalance, interestRate decimal.Decimal, withdrawalLimit int) (*Savings, error) {
	s.logger.InfoContext(ctx, "Opening savings account", slog.String("customerID", customerID))

	acc, err := NewSavings(s.seq.NextID(), customerID, customerName, initialBalance, interestRate, withdrawalLimit, s.clk.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "Savings account validation failed", slog.Any("error", err))
		return nil, err
	}
	if err := s.repo.Add(ctx, acc); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to add savings account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add account: %w", err)
	}
	s.logger.InfoContext(ctx, "Savings account opened", slog.String("accountNumber", acc.Number()))
	return acc, nil
}

func (s *accountService) OpenLoan(ctx context.Context, customerID, customerName string, initialBalance, loanAmount, interestRate decimal.Decimal, termMonths int) (*Loan, error) {
	s.logger.InfoContext(ctx, "Opening loan account", slog.String("customerID", customerID))

	acc, err := NewLoan(s.seq.NextID(), customerID, customerName, initialBalance, loanAmount, interestRate, termMonths, s.clk.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "Loan account validation failed", slog.Any("error", err))
		return nil, err
	}
	if err := s.repo.Add(ctx, acc); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to add loan account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add account: %w", err)
	}
	s.logger.InfoContext(ctx, "Loan account opened",
		slog.String("accountNumber", acc.Number()),
		slog.String("monthlyInstallment", acc.MonthlyInstallment().String()))
	return acc, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountNumber string) (Account, error) {
	acc, err := s.repo.Get(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Account not found", slog.String("accountNumber", accountNumber))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error fetching account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get account %s: %w", accountNumber, err)
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing accounts", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListCustomerAccounts(ctx context.Context, customerID string) ([]Account, error) {
	accounts, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customer accounts",
			slog.String("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list accounts for customer %s: %w", customerID, err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, acc Account) error {
	if acc == nil {
		return fmt.Errorf("%w: account cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := s.repo.Update(ctx, acc); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to update account",
			slog.String("accountNumber", acc.Number()), slog.Any("error", err))
		return fmt.Errorf("failed to update account %s: %w", acc.Number(), err)
	}
	s.logger.InfoContext(ctx, "Account updated", slog.String("accountNumber", acc.Number()))
	return nil
}

func (s *accountService) CloseAccount(ctx context.Context, accountNumber string) error {
	if err := s.repo.Delete(ctx, accountNumber); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to delete account",
			slog.String("accountNumber", accountNumber), slog.Any("error", err))
		return fmt.Errorf("failed to delete account %s: %w", accountNumber, err)
	}
	s.logger.InfoContext(ctx, "Account closed", slog.String("accountNumber", accountNumber))
	return nil
}
