package ledger

import "context"

// Repository is the append-only transaction log. Append never rewrites or
// deletes existing records; List returns them in append order.
type Repository interface {
	Append(ctx context.Context, tx Transaction) error

	List(ctx context.Context) ([]Transaction, error)
}
