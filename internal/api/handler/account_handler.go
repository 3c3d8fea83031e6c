package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pybank/internal/api/handler/dto"
	"pybank/internal/config"
	"pybank/internal/domain/account"
	"pybank/internal/domain/customer"
	"pybank/internal/pkg/apperrors"
)

type AccountHandler struct {
	accounts  account.AccountService
	customers customer.CustomerService
	bank      config.BankConfig
	logger    *slog.Logger
}

func NewAccountHandler(accounts account.AccountService, customers customer.CustomerService, bank config.BankConfig, l *slog.Logger) *AccountHandler {
	if accounts == nil {
		panic("account service cannot be nil")
	}
	if customers == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AccountHandler{
		accounts:  accounts,
		customers: customers,
		bank:      bank,
		logger:    l.With("component", "AccountHandler"),
	}
}

func getAccountNumberFromURL(r *http.Request) (string, error) {
	num := chi.URLParam(r, "accountNumber")
	if num == "" {
		return "", fmt.Errorf("%w: accountNumber not found in URL path", apperrors.ErrInvalidArgument)
	}
	return num, nil
}

// OpenAccount handles POST /accounts. The request type field selects the
// account variant; omitted variant fields fall back to the bank defaults.
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received open account request")

	var req dto.OpenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	owner, err := h.customers.GetCustomer(r.Context(), req.CustomerID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Account owner lookup failed", slog.String("customerID", req.CustomerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	initialBalance := dto.DecimalField(&req.InitialBalance, decimal.Zero)

	var opened account.Account
	switch account.Kind(req.Type) {
	case account.KindChecking:
		overdraft := dto.DecimalField(req.OverdraftLimit, decimal.NewFromFloat(h.bank.CheckingOverdraftLimit))
		opened, err = h.accounts.OpenChecking(r.Context(), owner.CustomerID, owner.Name, initialBalance, overdraft)
	case account.KindSavings:
		rate := dto.DecimalField(req.InterestRate, decimal.NewFromFloat(h.bank.SavingsInterestRate))
		limit := h.bank.SavingsWithdrawalLimit
		if req.WithdrawalLimit != nil {
			limit = *req.WithdrawalLimit
		}
		opened, err = h.accounts.OpenSavings(r.Context(), owner.CustomerID, owner.Name, initialBalance, rate, limit)
	case account.KindLoan:
		loanAmount := dto.DecimalField(req.LoanAmount, decimal.Zero)
		rate := dto.DecimalField(req.InterestRate, decimal.NewFromFloat(h.bank.LoanInterestRate))
		term := h.bank.DefaultLoanTermMonths
		if req.TermMonths != nil {
			term = *req.TermMonths
		}
		opened, err = h.accounts.OpenLoan(r.Context(), owner.CustomerID, owner.Name, initialBalance, loanAmount, rate, term)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to open account", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewAccountResponse(opened)
	h.logger.InfoContext(r.Context(), "Account opened successfully",
		slog.String("accountNumber", resp.AccountNumber), slog.String("type", resp.Type))
	respondJSON(w, http.StatusCreated, resp)
}

// GetAccount handles GET /accounts/{accountNumber}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := getAccountNumberFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get account number from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	found, err := h.accounts.GetAccount(r.Context(), accountNumber)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get account", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewAccountResponse(found)
	h.logger.InfoContext(r.Context(), "Account retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

// ListAccounts handles GET /accounts. With ?customer_id= the result is
// limited to that customer's accounts.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list accounts request")

	var (
		accounts []account.Account
		err      error
	)
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		accounts, err = h.accounts.ListCustomerAccounts(r.Context(), customerID)
	} else {
		accounts, err = h.accounts.ListAccounts(r.Context())
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list accounts", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewAccountListResponse(accounts)
	h.logger.InfoContext(r.Context(), "Accounts listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// RepayLoan handles POST /accounts/{accountNumber}/repayments.
func (h *AccountHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := getAccountNumberFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get account number from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.RepayRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	amount, _ := decimal.NewFromString(req.Amount)

	found, err := h.accounts.GetAccount(r.Context(), accountNumber)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to get account", slog.Any("error", err))
		respondError(w, err)
		return
	}

	loanAccount, ok := found.(*account.Loan)
	if !ok {
		h.logger.WarnContext(r.Context(), "Repayment attempted on non-loan account",
			slog.String("accountNumber", accountNumber), slog.String("type", string(found.Kind())))
		respondError(w, fmt.Errorf("%w: account %s is not a loan account", apperrors.ErrInvalidArgument, accountNumber))
		return
	}

	if err := loanAccount.Repay(amount); err != nil {
		h.logger.WarnContext(r.Context(), "Repayment rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := h.accounts.UpdateAccount(r.Context(), loanAccount); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to persist repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewAccountResponse(loanAccount)
	h.logger.InfoContext(r.Context(), "Loan repayment applied",
		slog.String("accountNumber", accountNumber), slog.String("amount", amount.StringFixed(2)))
	respondJSON(w, http.StatusOK, resp)
}

// CloseAccount handles DELETE /accounts/{accountNumber}.
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := getAccountNumberFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get account number from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.accounts.CloseAccount(r.Context(), accountNumber); err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to close account", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Account closed successfully")
	respondJSON(w, http.StatusNoContent, nil)
}
