package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
)

type Kind string

const (
	KindChecking Kind = "Checking"
	KindSavings  Kind = "Savings"
	KindLoan     Kind = "Loan"
)

// Account is the capability set shared by every account variant. Balance
// mutation goes through Deposit/Withdraw so the variant-specific floor rules
// cannot be bypassed; persistence goes through Record.
type Account interface {
	Number() string
	CustomerID() string
	CustomerName() string
	Balance() decimal.Decimal
	CreatedAt() time.Time
	Kind() Kind

	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error

	Record() Record
}

// base carries the fields and rules common to all variants. Variants embed it
// and shadow Withdraw where their floor differs.
type base struct {
	number       string
	customerID   string
	customerName string
	balance      decimal.Decimal
	createdAt    time.Time
}

func newBase(number, customerID, customerName string, balance decimal.Decimal, createdAt time.Time) base {
	return base{
		number:       number,
		customerID:   customerID,
		customerName: customerName,
		balance:      balance,
		createdAt:    createdAt,
	}
}

func (b *base) Number() string           { return b.number }
func (b *base) CustomerID() string       { return b.customerID }
func (b *base) CustomerName() string     { return b.customerName }
func (b *base) Balance() decimal.Decimal { return b.balance }
func (b *base) CreatedAt() time.Time     { return b.createdAt }

func (b *base) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s", apperrors.ErrInvalidAmount, amount)
	}
	b.balance = b.balance.Add(amount)
	return nil
}

func (b *base) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", apperrors.ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(b.balance) {
		return fmt.Errorf("%w: withdrawal of %s exceeds balance %s", apperrors.ErrInsufficientFunds, amount, b.balance)
	}
	b.balance = b.balance.Sub(amount)
	return nil
}

// applyInterest credits balance*rate when the balance is positive. Callers
// are responsible for invoking it at most once per period.
func (b *base) applyInterest(rate decimal.Decimal) {
	if b.balance.IsPositive() {
		b.balance = b.balance.Add(b.balance.Mul(rate))
	}
}
