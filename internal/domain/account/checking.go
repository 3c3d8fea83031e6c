package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
)

// Checking permits a negative balance down to -overdraftLimit.
type Checking struct {
	base
	overdraftLimit decimal.Decimal
}

var _ Account = (*Checking)(nil)

func NewChecking(number, customerID, customerName string, balance, overdraftLimit decimal.Decimal, createdAt time.Time) (*Checking, error) {
	if overdraftLimit.IsNegative() {
		return nil, fmt.Errorf("%w: overdraft limit cannot be negative", apperrors.ErrInvalidArgument)
	}
	return &Checking{
		base:           newBase(number, customerID, customerName, balance, createdAt),
		overdraftLimit: overdraftLimit,
	}, nil
}

func (c *Checking) Kind() Kind { return KindChecking }

func (c *Checking) OverdraftLimit() decimal.Decimal { return c.overdraftLimit }

func (c *Checking) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", apperrors.ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(c.balance.Add(c.overdraftLimit)) {
		return fmt.Errorf("%w: withdrawal of %s exceeds balance %s plus overdraft limit %s",
			apperrors.ErrInsufficientFunds, amount, c.balance, c.overdraftLimit)
	}
	c.balance = c.balance.Sub(amount)
	return nil
}

// ApplyInterest credits interest at the given rate. Checking accounts carry no
// rate of their own; the bank-wide checking rate comes from configuration.
func (c *Checking) ApplyInterest(rate decimal.Decimal) {
	c.applyInterest(rate)
}

func (c *Checking) SetOverdraftLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: overdraft limit cannot be negative", apperrors.ErrInvalidArgument)
	}
	c.overdraftLimit = limit
	return nil
}
