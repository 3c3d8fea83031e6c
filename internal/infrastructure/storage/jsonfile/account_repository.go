package jsonfile

import (
	"context"
	"fmt"
	"log/slog"

	"pybank/internal/domain/account"
	"pybank/internal/pkg/apperrors"
)

type AccountRepository struct {
	store  *store[account.Record]
	logger *slog.Logger
}

var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(path string, logger *slog.Logger) (*AccountRepository, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	st, err := newStore[account.Record](path, "accounts", logger)
	if err != nil {
		return nil, err
	}
	return &AccountRepository{
		store:  st,
		logger: logger.With(slog.String("component", "AccountRepository")),
	}, nil
}

// Add appends without a uniqueness check; account numbers are expected to
// come from the sequence generator upstream.
func (r *AccountRepository) Add(ctx context.Context, acc account.Account) error {
	return r.store.mutate("add", func(records []account.Record) ([]account.Record, error) {
		return append(records, acc.Record()), nil
	})
}

func (r *AccountRepository) Get(ctx context.Context, accountNumber string) (account.Account, error) {
	var found account.Account
	err := r.store.view("get", func(records []account.Record) error {
		for _, rec := range records {
			if rec.AccountNumber == accountNumber {
				acc, err := account.FromRecord(rec)
				if err != nil {
					return fmt.Errorf("reconstruct account %s: %w", accountNumber, err)
				}
				found = acc
				return nil
			}
		}
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	return r.list("list", func(account.Record) bool { return true })
}

// ListByCustomer preserves store order.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]account.Account, error) {
	return r.list("list_by_customer", func(rec account.Record) bool {
		return rec.CustomerID == customerID
	})
}

func (r *AccountRepository) list(operation string, keep func(account.Record) bool) ([]account.Account, error) {
	var accounts []account.Account
	err := r.store.view(operation, func(records []account.Record) error {
		for _, rec := range records {
			if !keep(rec) {
				continue
			}
			acc, err := account.FromRecord(rec)
			if err != nil {
				return fmt.Errorf("reconstruct account %s: %w", rec.AccountNumber, err)
			}
			accounts = append(accounts, acc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, acc account.Account) error {
	return r.store.mutate("update", func(records []account.Record) ([]account.Record, error) {
		for i, rec := range records {
			if rec.AccountNumber == acc.Number() {
				records[i] = acc.Record()
				return records, nil
			}
		}
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.Number())
	})
}

func (r *AccountRepository) Delete(ctx context.Context, accountNumber string) error {
	return r.store.mutate("delete", func(records []account.Record) ([]account.Record, error) {
		kept := records[:0]
		removed := false
		for _, rec := range records {
			if rec.AccountNumber == accountNumber {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		if !removed {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		return kept, nil
	})
}
