package event

import (
	"context"
	"time"
)

type CustomerCreatedEvent struct {
	CustomerID string    `json:"customerId"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

type TransactionRecordedEvent struct {
	TransactionID     string    `json:"transactionId"`
	TransactionType   string    `json:"transactionType"`
	AccountNumber     string    `json:"accountNumber,omitempty"`
	FromAccountNumber string    `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string    `json:"toAccountNumber,omitempty"`
	Amount            string    `json:"amount"`
	User              string    `json:"user"`
	Timestamp         time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishTransactionRecorded(ctx context.Context, event TransactionRecordedEvent) error
}

// NoopPublisher satisfies Publisher when messaging is disabled in config.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error {
	return nil
}

func (NoopPublisher) PublishTransactionRecorded(context.Context, TransactionRecordedEvent) error {
	return nil
}
