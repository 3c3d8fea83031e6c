package customer

import (
	"strings"
	"time"

	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
	"pybank/internal/pkg/validate"
)

// Customer binds contact data to an owning authenticated user. UserID is an
// advisory reference; deleting a customer orphans any accounts that still
// point at it.
type Customer struct {
	CustomerID string     `json:"customer_id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"customer_name"`
	Email      string     `json:"customer_email"`
	Phone      string     `json:"customer_phone"`
	CreateAt   clock.Time `json:"create_at"`
}

func NewCustomer(customerID, userID, name, email, phone string, createdAt time.Time) (*Customer, error) {
	c := &Customer{
		CustomerID: customerID,
		UserID:     userID,
		CreateAt:   clock.At(createdAt),
	}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetEmail(email); err != nil {
		return nil, err
	}
	if err := c.SetPhone(phone); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("customer_name", "name cannot be empty")
	}
	c.Name = name
	return nil
}

func (c *Customer) SetEmail(email string) error {
	if err := validate.Email("customer_email", email); err != nil {
		return err
	}
	c.Email = email
	return nil
}

func (c *Customer) SetPhone(phone string) error {
	if err := validate.Phone("customer_phone", phone); err != nil {
		return err
	}
	c.Phone = phone
	return nil
}
