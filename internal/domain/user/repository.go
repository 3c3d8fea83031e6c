package user

import "context"

type Repository interface {
	Add(ctx context.Context, u *User) error

	// GetByIdentifier resolves a user by username, or by email when the
	// identifier contains an '@'.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)

	List(ctx context.Context) ([]*User, error)
}
