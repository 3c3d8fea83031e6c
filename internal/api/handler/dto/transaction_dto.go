package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pybank/internal/domain/ledger"
)

type DepositRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	return validateMovement(r.AccountNumber, r.Amount)
}

type WithdrawRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
}

func (r *WithdrawRequest) Validate() error {
	return validateMovement(r.AccountNumber, r.Amount)
}

type TransferRequest struct {
	FromAccountNumber string `json:"fromAccountNumber"`
	ToAccountNumber   string `json:"toAccountNumber"`
	Amount            string `json:"amount"`
}

func (r *TransferRequest) Validate() error {
	if strings.TrimSpace(r.FromAccountNumber) == "" {
		return fmt.Errorf("fromAccountNumber cannot be empty")
	}
	if strings.TrimSpace(r.ToAccountNumber) == "" {
		return fmt.Errorf("toAccountNumber cannot be empty")
	}
	if r.FromAccountNumber == r.ToAccountNumber {
		return fmt.Errorf("fromAccountNumber and toAccountNumber must differ")
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return fmt.Errorf("amount must be a decimal number")
	}
	return nil
}

type RepayRequest struct {
	Amount string `json:"amount"`
}

func (r *RepayRequest) Validate() error {
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return fmt.Errorf("amount must be a decimal number")
	}
	return nil
}

func validateMovement(accountNumber, amount string) error {
	if strings.TrimSpace(accountNumber) == "" {
		return fmt.Errorf("accountNumber cannot be empty")
	}
	if _, err := decimal.NewFromString(amount); err != nil {
		return fmt.Errorf("amount must be a decimal number")
	}
	return nil
}

type TransactionResponse struct {
	TransactionID     string `json:"transactionId"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	FromAccountNumber string `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string `json:"toAccountNumber,omitempty"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	User              string `json:"user"`
	Timestamp         string `json:"timestamp"`
}

func NewTransactionResponse(tx *ledger.Transaction) TransactionResponse {
	if tx == nil {
		return TransactionResponse{}
	}
	return TransactionResponse{
		TransactionID:     tx.ID,
		AccountNumber:     tx.AccountNumber,
		FromAccountNumber: tx.FromAccountNumber,
		ToAccountNumber:   tx.ToAccountNumber,
		Type:              string(tx.Type),
		Amount:            tx.Amount.StringFixed(2),
		User:              tx.User,
		Timestamp:         tx.Timestamp.String(),
	}
}

func NewTransactionListResponse(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, NewTransactionResponse(&txs[i]))
	}
	return out
}
