package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pybank/internal/domain/user"
	"pybank/internal/pkg/apperrors"
)

type UserRepository struct {
	store  *store[user.User]
	logger *slog.Logger
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(path string, logger *slog.Logger) (*UserRepository, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}
	st, err := newStore[user.User](path, "users", logger)
	if err != nil {
		return nil, err
	}
	return &UserRepository{
		store:  st,
		logger: logger.With(slog.String("component", "UserRepository")),
	}, nil
}

// Add rejects duplicate usernames and duplicate emails.
func (r *UserRepository) Add(ctx context.Context, u *user.User) error {
	return r.store.mutate("add", func(records []user.User) ([]user.User, error) {
		for _, rec := range records {
			if rec.Username == u.Username {
				return nil, fmt.Errorf("%w: username %s", apperrors.ErrAlreadyExists, u.Username)
			}
			if rec.Email == u.Email {
				return nil, fmt.Errorf("%w: email %s", apperrors.ErrAlreadyExists, u.Email)
			}
		}
		return append(records, *u), nil
	})
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	byEmail := strings.Contains(identifier, "@")

	var found *user.User
	err := r.store.view("get_by_identifier", func(records []user.User) error {
		for i := range records {
			match := records[i].Username == identifier
			if byEmail {
				match = records[i].Email == identifier
			}
			if match {
				u := records[i]
				found = &u
				return nil
			}
		}
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, identifier)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	err := r.store.view("list", func(records []user.User) error {
		for i := range records {
			u := records[i]
			users = append(users, &u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
