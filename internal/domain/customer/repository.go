package customer

import "context"

// CustomerRepository is the durable customer collection. Unlike the account
// store, Add rejects duplicate customer IDs.
type CustomerRepository interface {
	Add(ctx context.Context, cust *Customer) error

	Get(ctx context.Context, customerID string) (*Customer, error)

	List(ctx context.Context) ([]*Customer, error)

	ListByUser(ctx context.Context, userID string) ([]*Customer, error)

	Update(ctx context.Context, cust *Customer) error

	Delete(ctx context.Context, customerID string) error
}
