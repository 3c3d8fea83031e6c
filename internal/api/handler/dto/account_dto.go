package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pybank/internal/domain/account"
	"pybank/internal/pkg/clock"
)

type OpenAccountRequest struct {
	CustomerID     string `json:"customerId"`
	Type           string `json:"type"`
	InitialBalance string `json:"initialBalance,omitempty"`

	OverdraftLimit *string `json:"overdraftLimit,omitempty"`

	InterestRate    *string `json:"interestRate,omitempty"`
	WithdrawalLimit *int    `json:"withdrawalLimit,omitempty"`

	LoanAmount *string `json:"loanAmount,omitempty"`
	TermMonths *int    `json:"termMonths,omitempty"`
}

func (r *OpenAccountRequest) Validate() error {
	if strings.TrimSpace(r.CustomerID) == "" {
		return fmt.Errorf("customerId cannot be empty")
	}
	switch account.Kind(r.Type) {
	case account.KindChecking, account.KindSavings, account.KindLoan:
	default:
		return fmt.Errorf("type must be one of Checking, Savings, Loan")
	}
	for name, v := range map[string]*string{
		"initialBalance": &r.InitialBalance,
		"overdraftLimit": r.OverdraftLimit,
		"interestRate":   r.InterestRate,
		"loanAmount":     r.LoanAmount,
	} {
		if v == nil || *v == "" {
			continue
		}
		if _, err := decimal.NewFromString(*v); err != nil {
			return fmt.Errorf("%s must be a decimal number", name)
		}
	}
	return nil
}

// DecimalField parses an optional decimal request field, substituting the
// given default when the field is absent.
func DecimalField(v *string, def decimal.Decimal) decimal.Decimal {
	if v == nil || *v == "" {
		return def
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return def
	}
	return d
}

type AccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	CustomerID    string `json:"customerId"`
	CustomerName  string `json:"customerName"`
	Balance       string `json:"balance"`
	Type          string `json:"type"`
	CreatedAt     string `json:"createdAt"`

	OverdraftLimit *string `json:"overdraftLimit,omitempty"`

	InterestRate         *string `json:"interestRate,omitempty"`
	WithdrawalLimit      *int    `json:"withdrawalLimit,omitempty"`
	WithdrawalsThisMonth *int    `json:"withdrawalsThisMonth,omitempty"`

	LoanAmount         *string `json:"loanAmount,omitempty"`
	TermMonths         *int    `json:"termMonths,omitempty"`
	MonthlyInstallment *string `json:"monthlyInstallment,omitempty"`
}

func NewAccountResponse(acc account.Account) AccountResponse {
	if acc == nil {
		return AccountResponse{}
	}

	formatMoney := func(d decimal.Decimal) string {
		return d.StringFixed(2)
	}

	resp := AccountResponse{
		AccountNumber: acc.Number(),
		CustomerID:    acc.CustomerID(),
		CustomerName:  acc.CustomerName(),
		Balance:       formatMoney(acc.Balance()),
		Type:          string(acc.Kind()),
		CreatedAt:     acc.CreatedAt().Format(clock.Layout),
	}

	switch a := acc.(type) {
	case *account.Checking:
		limit := formatMoney(a.OverdraftLimit())
		resp.OverdraftLimit = &limit
	case *account.Savings:
		rate := a.InterestRate().String()
		limit := a.WithdrawalLimit()
		used := a.WithdrawalsThisMonth()
		resp.InterestRate = &rate
		resp.WithdrawalLimit = &limit
		resp.WithdrawalsThisMonth = &used
	case *account.Loan:
		amount := formatMoney(a.LoanAmount())
		rate := a.InterestRate().String()
		term := a.TermMonths()
		installment := formatMoney(a.MonthlyInstallment())
		resp.LoanAmount = &amount
		resp.InterestRate = &rate
		resp.TermMonths = &term
		resp.MonthlyInstallment = &installment
	}
	return resp
}

func NewAccountListResponse(accounts []account.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, NewAccountResponse(acc))
	}
	return out
}
