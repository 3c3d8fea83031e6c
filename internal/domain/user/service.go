package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/sequence"
	"pybank/internal/pkg/validate"
)

type UserService interface {
	Register(ctx context.Context, name, username, email, password, phone string) (*User, error)
	Authenticate(ctx context.Context, identifier, password string) (*User, error)
}

var _ UserService = (*userService)(nil)

type userService struct {
	repo   Repository
	seq    *sequence.Generator
	logger *slog.Logger
}

func NewUserService(repo Repository, seq *sequence.Generator, logger *slog.Logger) (UserService, error) {
	if repo == nil {
		panic("user repository cannot be nil")
	}
	if seq == nil {
		panic("sequence generator cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewUserService, using default stderr handler")
	}

	existing, err := repo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to seed user numbering: %w", err)
	}
	for _, u := range existing {
		seq.Seed(u.UserID)
	}

	return &userService{
		repo:   repo,
		seq:    seq,
		logger: logger.With(slog.String("component", "userService")),
	}, nil
}

func (s *userService) Register(ctx context.Context, name, username, email, password, phone string) (*User, error) {
	s.logger.InfoContext(ctx, "Attempting to register user", slog.String("username", username))

	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name cannot be empty")
	}
	if username == "" || strings.Contains(username, "@") {
		return nil, apperrors.NewValidationError("username", "username cannot be empty or contain '@'")
	}
	if err := validate.Email("email", email); err != nil {
		s.logger.WarnContext(ctx, "Email validation failed", slog.Any("error", err))
		return nil, err
	}
	if err := validate.Phone("phone", phone); err != nil {
		s.logger.WarnContext(ctx, "Phone validation failed", slog.Any("error", err))
		return nil, err
	}
	if password == "" {
		return nil, apperrors.NewValidationError("password", "password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		UserID:       s.seq.NextID(),
		Name:         name,
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
	}
	if err := s.repo.Add(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Registration rejected: username or email already taken")
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository failed to save new user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", slog.String("userID", u.UserID))
	return u, nil
}

// Authenticate resolves the user by username or email and checks the
// password. A missing user and a wrong password both surface as
// ErrUnauthorized so callers cannot probe for registered identifiers.
func (s *userService) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	u, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Login failed: unknown identifier")
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		s.logger.ErrorContext(ctx, "Repository error resolving user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login failed: password mismatch", slog.String("userID", u.UserID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	s.logger.InfoContext(ctx, "User authenticated", slog.String("userID", u.UserID))
	return u, nil
}
