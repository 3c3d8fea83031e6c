package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pybank/internal/event"
	"pybank/internal/infrastructure/monitoring"
	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
	"pybank/internal/pkg/sequence"
)

type CustomerService interface {
	RegisterCustomer(ctx context.Context, userID, name, email, phone string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	ListCustomersByUser(ctx context.Context, userID string) ([]*Customer, error)
	UpdateContact(ctx context.Context, customerID string, name, email, phone *string) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	seq    *sequence.Generator
	clk    clock.Clock
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.Publisher, seq *sequence.Generator, clk clock.Clock, logger *slog.Logger) (CustomerService, error) {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if seq == nil || clk == nil {
		panic("sequence generator and clock cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher()
	}

	existing, err := repo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to seed customer numbering: %w", err)
	}
	for _, cust := range existing {
		seq.Seed(cust.CustomerID)
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		seq:    seq,
		clk:    clk,
		logger: logger.With(slog.String("component", "customerService")),
	}, nil
}

func (s *customerService) RegisterCustomer(ctx context.Context, userID, name, email, phone string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer", slog.String("userID", userID))

	cust, err := NewCustomer(s.seq.NextID(), userID, name, email, phone, s.clk.Now())
	if err != nil {
		s.logger.WarnContext(ctx, "Customer validation failed", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Input validation passed", slog.String("customerID", cust.CustomerID))

	if err := s.repo.Add(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	monitoring.RecordCustomerCreated()

	created := event.CustomerCreatedEvent{
		CustomerID: cust.CustomerID,
		UserID:     cust.UserID,
		Name:       cust.Name,
		Timestamp:  time.Now(),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, created); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	} else {
		s.logger.InfoContext(ctx, "Successfully published customer creation event")
	}

	s.logger.InfoContext(ctx, "Successfully registered new customer", slog.String("customerID", cust.CustomerID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	cust, err := s.repo.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.String("customerID", customerID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) ListCustomersByUser(ctx context.Context, userID string) ([]*Customer, error) {
	customers, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers by user",
			slog.String("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers for user %s: %w", userID, err)
	}
	return customers, nil
}

// UpdateContact applies the non-nil fields through the entity setters so each
// one re-validates before anything is persisted.
func (s *customerService) UpdateContact(ctx context.Context, customerID string, name, email, phone *string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to update customer contact data", slog.String("customerID", customerID))

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if err := cust.SetName(*name); err != nil {
			s.logger.WarnContext(ctx, "Name validation failed", slog.Any("error", err))
			return nil, err
		}
	}
	if email != nil {
		if err := cust.SetEmail(*email); err != nil {
			s.logger.WarnContext(ctx, "Email validation failed", slog.Any("error", err))
			return nil, err
		}
	}
	if phone != nil {
		if err := cust.SetPhone(*phone); err != nil {
			s.logger.WarnContext(ctx, "Phone validation failed", slog.Any("error", err))
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}
	s.logger.InfoContext(ctx, "Customer contact data updated", slog.String("customerID", customerID))
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.String("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	s.logger.InfoContext(ctx, "Customer deleted", slog.String("customerID", customerID))
	return nil
}
