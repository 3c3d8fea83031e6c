package jsonfile

import (
	"context"
	"fmt"
	"log/slog"

	"pybank/internal/domain/customer"
	"pybank/internal/pkg/apperrors"
)

type CustomerRepository struct {
	store  *store[customer.Customer]
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(path string, logger *slog.Logger) (*CustomerRepository, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	st, err := newStore[customer.Customer](path, "customers", logger)
	if err != nil {
		return nil, err
	}
	return &CustomerRepository{
		store:  st,
		logger: logger.With(slog.String("component", "CustomerRepository")),
	}, nil
}

func (r *CustomerRepository) Add(ctx context.Context, cust *customer.Customer) error {
	return r.store.mutate("add", func(records []customer.Customer) ([]customer.Customer, error) {
		for _, rec := range records {
			if rec.CustomerID == cust.CustomerID {
				return nil, fmt.Errorf("%w: customer %s", apperrors.ErrAlreadyExists, cust.CustomerID)
			}
		}
		return append(records, *cust), nil
	})
}

func (r *CustomerRepository) Get(ctx context.Context, customerID string) (*customer.Customer, error) {
	var found *customer.Customer
	err := r.store.view("get", func(records []customer.Customer) error {
		for i := range records {
			if records[i].CustomerID == customerID {
				cust := records[i]
				found = &cust
				return nil
			}
		}
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	return r.list("list", func(customer.Customer) bool { return true })
}

func (r *CustomerRepository) ListByUser(ctx context.Context, userID string) ([]*customer.Customer, error) {
	return r.list("list_by_user", func(rec customer.Customer) bool {
		return rec.UserID == userID
	})
}

func (r *CustomerRepository) list(operation string, keep func(customer.Customer) bool) ([]*customer.Customer, error) {
	var customers []*customer.Customer
	err := r.store.view(operation, func(records []customer.Customer) error {
		for i := range records {
			if !keep(records[i]) {
				continue
			}
			cust := records[i]
			customers = append(customers, &cust)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	return r.store.mutate("update", func(records []customer.Customer) ([]customer.Customer, error) {
		for i := range records {
			if records[i].CustomerID == cust.CustomerID {
				records[i] = *cust
				return records, nil
			}
		}
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, cust.CustomerID)
	})
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	return r.store.mutate("delete", func(records []customer.Customer) ([]customer.Customer, error) {
		kept := records[:0]
		removed := false
		for _, rec := range records {
			if rec.CustomerID == customerID {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		if !removed {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return kept, nil
	})
}
