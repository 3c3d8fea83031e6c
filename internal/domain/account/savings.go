package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
)

// Savings caps the number of withdrawals per month regardless of balance.
// A successful withdrawal increments the counter; the month-end job resets it.
type Savings struct {
	base
	interestRate         decimal.Decimal
	withdrawalLimit      int
	withdrawalsThisMonth int
}

var _ Account = (*Savings)(nil)

func NewSavings(number, customerID, customerName string, balance, interestRate decimal.Decimal, withdrawalLimit int, createdAt time.Time) (*Savings, error) {
	if interestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	if withdrawalLimit < 0 {
		return nil, fmt.Errorf("%w: withdrawal limit cannot be negative", apperrors.ErrInvalidArgument)
	}
	return &Savings{
		base:            newBase(number, customerID, customerName, balance, createdAt),
		interestRate:    interestRate,
		withdrawalLimit: withdrawalLimit,
	}, nil
}

func (s *Savings) Kind() Kind { return KindSavings }

func (s *Savings) InterestRate() decimal.Decimal { return s.interestRate }
func (s *Savings) WithdrawalLimit() int          { return s.withdrawalLimit }
func (s *Savings) WithdrawalsThisMonth() int     { return s.withdrawalsThisMonth }

func (s *Savings) Withdraw(amount decimal.Decimal) error {
	if s.withdrawalsThisMonth >= s.withdrawalLimit {
		return fmt.Errorf("%w: %d of %d withdrawals used",
			apperrors.ErrWithdrawalLimitExceeded, s.withdrawalsThisMonth, s.withdrawalLimit)
	}
	if err := s.base.Withdraw(amount); err != nil {
		return err
	}
	s.withdrawalsThisMonth++
	return nil
}

func (s *Savings) ApplyInterest() {
	s.applyInterest(s.interestRate)
}

func (s *Savings) SetInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	s.interestRate = rate
	return nil
}

func (s *Savings) SetWithdrawalLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%w: withdrawal limit cannot be negative", apperrors.ErrInvalidArgument)
	}
	s.withdrawalLimit = limit
	return nil
}

func (s *Savings) SetWithdrawalsThisMonth(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: withdrawal count cannot be negative", apperrors.ErrInvalidArgument)
	}
	s.withdrawalsThisMonth = count
	return nil
}

func (s *Savings) ResetWithdrawalsThisMonth() {
	s.withdrawalsThisMonth = 0
}
