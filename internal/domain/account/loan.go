package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
)

var monthsPerYear = decimal.NewFromInt(12)

// Loan tracks outstanding principal separately from the account balance.
// Repayments go against the principal via Repay; Deposit/Withdraw operate on
// the balance with the base rules.
type Loan struct {
	base
	loanAmount         decimal.Decimal
	interestRate       decimal.Decimal
	termMonths         int
	monthlyInstallment decimal.Decimal
}

var _ Account = (*Loan)(nil)

func NewLoan(number, customerID, customerName string, balance, loanAmount, interestRate decimal.Decimal, termMonths int, createdAt time.Time) (*Loan, error) {
	if loanAmount.IsNegative() {
		return nil, fmt.Errorf("%w: loan amount cannot be negative", apperrors.ErrInvalidArgument)
	}
	if interestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term months must be positive", apperrors.ErrInvalidArgument)
	}
	l := &Loan{
		base:         newBase(number, customerID, customerName, balance, createdAt),
		loanAmount:   loanAmount,
		interestRate: interestRate,
		termMonths:   termMonths,
	}
	l.monthlyInstallment = l.CalculateMonthlyInstallment()
	return l, nil
}

func (l *Loan) Kind() Kind { return KindLoan }

func (l *Loan) LoanAmount() decimal.Decimal         { return l.loanAmount }
func (l *Loan) InterestRate() decimal.Decimal       { return l.interestRate }
func (l *Loan) TermMonths() int                     { return l.termMonths }
func (l *Loan) MonthlyInstallment() decimal.Decimal { return l.monthlyInstallment }

// CalculateMonthlyInstallment derives the flat-rate installment:
// (principal + principal*rate*term/12) / term, rounded to 2 decimal places.
func (l *Loan) CalculateMonthlyInstallment() decimal.Decimal {
	if l.termMonths <= 0 {
		return decimal.Zero
	}
	term := decimal.NewFromInt(int64(l.termMonths))
	totalInterest := l.loanAmount.Mul(l.interestRate).Mul(term).Div(monthsPerYear)
	totalPayable := l.loanAmount.Add(totalInterest)
	return totalPayable.Div(term).Round(2)
}

// Repay reduces the outstanding principal. Underpaying the monthly installment
// is rejected; overpayment clamps the principal at zero and is not refunded.
func (l *Loan) Repay(amount decimal.Decimal) error {
	if amount.LessThan(l.monthlyInstallment) {
		return fmt.Errorf("%w: repayment %s is below installment %s",
			apperrors.ErrInsufficientRepayment, amount, l.monthlyInstallment)
	}
	l.loanAmount = l.loanAmount.Sub(amount)
	if l.loanAmount.IsNegative() {
		l.loanAmount = decimal.Zero
	}
	return nil
}

func (l *Loan) SetLoanAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: loan amount cannot be negative", apperrors.ErrInvalidArgument)
	}
	l.loanAmount = amount
	l.monthlyInstallment = l.CalculateMonthlyInstallment()
	return nil
}

func (l *Loan) SetInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidArgument)
	}
	l.interestRate = rate
	l.monthlyInstallment = l.CalculateMonthlyInstallment()
	return nil
}

func (l *Loan) SetTermMonths(months int) error {
	if months <= 0 {
		return fmt.Errorf("%w: term months must be positive", apperrors.ErrInvalidArgument)
	}
	l.termMonths = months
	l.monthlyInstallment = l.CalculateMonthlyInstallment()
	return nil
}
