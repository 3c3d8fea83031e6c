package account

import "context"

// Repository is the durable account collection. Implementations reload the
// backing file on every call and rewrite it whole on mutation; Add performs
// no uniqueness check (numbers come from the sequence generator upstream).
type Repository interface {
	Add(ctx context.Context, acc Account) error

	Get(ctx context.Context, accountNumber string) (Account, error)

	List(ctx context.Context) ([]Account, error)

	ListByCustomer(ctx context.Context, customerID string) ([]Account, error)

	Update(ctx context.Context, acc Account) error

	Delete(ctx context.Context, accountNumber string) error
}
