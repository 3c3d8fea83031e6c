package ledger

import (
	"github.com/shopspring/decimal"

	"pybank/internal/pkg/clock"
)

type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

// Transaction is an immutable audit record. Single-account operations fill
// AccountNumber; transfers fill the From/To pair instead. Records are only
// ever appended, never rewritten.
type Transaction struct {
	ID                string          `json:"transaction_id"`
	AccountNumber     string          `json:"account_number,omitempty"`
	FromAccountNumber string          `json:"from_account_number,omitempty"`
	ToAccountNumber   string          `json:"to_account_number,omitempty"`
	Type              Kind            `json:"transaction_type"`
	Amount            decimal.Decimal `json:"amount"`
	User              string          `json:"user"`
	Timestamp         clock.Time      `json:"timestamp"`
}

// Touches reports whether the record involves the given account on either
// side of the operation.
func (t Transaction) Touches(accountNumber string) bool {
	return t.AccountNumber == accountNumber ||
		t.FromAccountNumber == accountNumber ||
		t.ToAccountNumber == accountNumber
}
