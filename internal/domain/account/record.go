package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
)

// Record is the flat persisted form shared by all variants. The Type field is
// the discriminator used to reconstruct the right variant; fields that do not
// apply to a variant are omitted.
type Record struct {
	AccountNumber string          `json:"account_number"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     clock.Time      `json:"created_at"`
	Type          Kind            `json:"type"`

	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty"`

	InterestRate         *decimal.Decimal `json:"interest_rate,omitempty"`
	WithdrawalLimit      *int             `json:"withdrawal_limit,omitempty"`
	WithdrawalsThisMonth *int             `json:"withdrawals_this_month,omitempty"`

	LoanAmount         *decimal.Decimal `json:"loan_amount,omitempty"`
	TermMonths         *int             `json:"term_months,omitempty"`
	MonthlyInstallment *decimal.Decimal `json:"monthly_installment,omitempty"`
}

func (b *base) record(kind Kind) Record {
	return Record{
		AccountNumber: b.number,
		CustomerID:    b.customerID,
		CustomerName:  b.customerName,
		Balance:       b.balance,
		CreatedAt:     clock.At(b.createdAt),
		Type:          kind,
	}
}

func (c *Checking) Record() Record {
	rec := c.base.record(KindChecking)
	limit := c.overdraftLimit
	rec.OverdraftLimit = &limit
	return rec
}

func (s *Savings) Record() Record {
	rec := s.base.record(KindSavings)
	rate := s.interestRate
	limit := s.withdrawalLimit
	used := s.withdrawalsThisMonth
	rec.InterestRate = &rate
	rec.WithdrawalLimit = &limit
	rec.WithdrawalsThisMonth = &used
	return rec
}

func (l *Loan) Record() Record {
	rec := l.base.record(KindLoan)
	amount := l.loanAmount
	rate := l.interestRate
	term := l.termMonths
	installment := l.monthlyInstallment
	rec.LoanAmount = &amount
	rec.InterestRate = &rate
	rec.TermMonths = &term
	rec.MonthlyInstallment = &installment
	return rec
}

// FromRecord reconstructs the variant named by the record's type tag. The
// round-trip through Record and back is lossless for every variant.
func FromRecord(rec Record) (Account, error) {
	switch rec.Type {
	case KindChecking:
		limit := decimal.Zero
		if rec.OverdraftLimit != nil {
			limit = *rec.OverdraftLimit
		}
		return NewChecking(rec.AccountNumber, rec.CustomerID, rec.CustomerName, rec.Balance, limit, rec.CreatedAt.Time)

	case KindSavings:
		rate := decimal.Zero
		if rec.InterestRate != nil {
			rate = *rec.InterestRate
		}
		limit := 0
		if rec.WithdrawalLimit != nil {
			limit = *rec.WithdrawalLimit
		}
		acc, err := NewSavings(rec.AccountNumber, rec.CustomerID, rec.CustomerName, rec.Balance, rate, limit, rec.CreatedAt.Time)
		if err != nil {
			return nil, err
		}
		if rec.WithdrawalsThisMonth != nil {
			if err := acc.SetWithdrawalsThisMonth(*rec.WithdrawalsThisMonth); err != nil {
				return nil, err
			}
		}
		return acc, nil

	case KindLoan:
		amount := decimal.Zero
		if rec.LoanAmount != nil {
			amount = *rec.LoanAmount
		}
		rate := decimal.Zero
		if rec.InterestRate != nil {
			rate = *rec.InterestRate
		}
		term := 0
		if rec.TermMonths != nil {
			term = *rec.TermMonths
		}
		// MonthlyInstallment is derived, so it is recomputed rather than read.
		return NewLoan(rec.AccountNumber, rec.CustomerID, rec.CustomerName, rec.Balance, amount, rate, term, rec.CreatedAt.Time)

	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrInvalidArgument, rec.Type)
	}
}
