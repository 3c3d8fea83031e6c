package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pybank/internal/api/handler/dto"
	"pybank/internal/api/middleware"
	"pybank/internal/domain/ledger"
	"pybank/internal/pkg/apperrors"
	"pybank/internal/pkg/clock"
)

type TransactionHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewTransactionHandler(s ledger.LedgerService, l *slog.Logger) *TransactionHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &TransactionHandler{
		service: s,
		logger:  l.With("component", "TransactionHandler"),
	}
}

// Deposit handles POST /transactions/deposits.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
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

	actor := middleware.IdentityFromContext(r.Context()).Username
	tx, err := h.service.Deposit(r.Context(), req.AccountNumber, amount, actor)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Deposit failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Deposit recorded", slog.String("transactionID", tx.ID))
	respondJSON(w, http.StatusCreated, dto.NewTransactionResponse(tx))
}

// Withdraw handles POST /transactions/withdrawals.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
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

	actor := middleware.IdentityFromContext(r.Context()).Username
	tx, err := h.service.Withdraw(r.Context(), req.AccountNumber, amount, actor)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Withdrawal failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Withdrawal recorded", slog.String("transactionID", tx.ID))
	respondJSON(w, http.StatusCreated, dto.NewTransactionResponse(tx))
}

// Transfer handles POST /transactions/transfers.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
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

	actor := middleware.IdentityFromContext(r.Context()).Username
	tx, err := h.service.Transfer(r.Context(), req.FromAccountNumber, req.ToAccountNumber, amount, actor)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Transfer failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Transfer recorded", slog.String("transactionID", tx.ID))
	respondJSON(w, http.StatusCreated, dto.NewTransactionResponse(tx))
}

// ListTransactions handles GET /transactions. Filters are mutually exclusive
// with date range taking precedence: start/end, then type, then user, then
// customer_id. An account_number parameter narrows any of them.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list transactions request")

	q := r.URL.Query()
	accountNumber := q.Get("account_number")

	var (
		txs []ledger.Transaction
		err error
	)
	switch {
	case q.Get("start") != "" || q.Get("end") != "":
		var start, end time.Time
		start, end, err = parseDateRange(q.Get("start"), q.Get("end"))
		if err != nil {
			h.logger.WarnContext(r.Context(), "Invalid date range", slog.Any("error", err))
			respondError(w, err)
			return
		}
		txs, err = h.service.TransactionsByDate(r.Context(), start, end, accountNumber)
	case q.Get("type") != "":
		kind := ledger.Kind(q.Get("type"))
		switch kind {
		case ledger.KindDeposit, ledger.KindWithdraw, ledger.KindTransfer:
		default:
			respondError(w, fmt.Errorf("%w: type must be one of deposit, withdraw, transfer", apperrors.ErrInvalidArgument))
			return
		}
		txs, err = h.service.TransactionsByType(r.Context(), kind, accountNumber)
	case q.Get("user") != "":
		txs, err = h.service.TransactionsByUser(r.Context(), q.Get("user"), accountNumber)
	case q.Get("customer_id") != "":
		txs, err = h.service.TransactionsByCustomer(r.Context(), q.Get("customer_id"), accountNumber)
	default:
		txs, err = h.service.Transactions(r.Context(), accountNumber)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list transactions", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewTransactionListResponse(txs)
	h.logger.InfoContext(r.Context(), "Transactions listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	// An open end of the range defaults to the epoch or the far future.
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

	var err error
	if startStr != "" {
		start, err = clock.ParseTimestamp(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date: %s", apperrors.ErrInvalidArgument, startStr)
		}
	}
	if endStr != "" {
		end, err = clock.ParseTimestamp(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date: %s", apperrors.ErrInvalidArgument, endStr)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date precedes start date", apperrors.ErrInvalidArgument)
	}
	return start, end, nil
}
