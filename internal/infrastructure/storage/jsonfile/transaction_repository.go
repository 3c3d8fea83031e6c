package jsonfile

import (
	"context"
	"log/slog"

	"pybank/internal/domain/ledger"
)

// TransactionRepository is append-only: records are added to the end of the
// log and never rewritten or removed.
type TransactionRepository struct {
	store  *store[ledger.Transaction]
	logger *slog.Logger
}

var _ ledger.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository(path string, logger *slog.Logger) (*TransactionRepository, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	st, err := newStore[ledger.Transaction](path, "transactions", logger)
	if err != nil {
		return nil, err
	}
	return &TransactionRepository{
		store:  st,
		logger: logger.With(slog.String("component", "TransactionRepository")),
	}, nil
}

func (r *TransactionRepository) Append(ctx context.Context, tx ledger.Transaction) error {
	return r.store.mutate("append", func(records []ledger.Transaction) ([]ledger.Transaction, error) {
		return append(records, tx), nil
	})
}

func (r *TransactionRepository) List(ctx context.Context) ([]ledger.Transaction, error) {
	var transactions []ledger.Transaction
	err := r.store.view("list", func(records []ledger.Transaction) error {
		transactions = records
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
