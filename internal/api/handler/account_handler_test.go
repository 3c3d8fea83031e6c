package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pybank/internal/api/handler"
	"pybank/internal/api/handler/dto"
	"pybank/internal/config"
	"pybank/internal/domain/account"
	"pybank/internal/pkg/apperrors"
)

type MockAccountService struct {
	mock.Mock
}

func (_m *MockAccountService) OpenChecking(ctx context.Context, customerID, customerName string, initialBalance, overdraftLimit decimal.Decimal) (*account.Checking, error) {
	ret := _m.Called(ctx, customerID, customerName, initialBalance, overdraftLimit)

	var r0 *account.Checking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Checking)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) OpenSavings(ctx context.Context, customerID, customerName string, initialBalance, interestRate decimal.Decimal, withdrawalLimit int) (*account.Savings, error) {
	ret := _m.Called(ctx, customerID, customerName, initialBalance, interestRate, withdrawalLimit)

	var r0 *account.Savings
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Savings)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) OpenLoan(ctx context.Context, customerID, customerName string, initialBalance, loanAmount, interestRate decimal.Decimal, termMonths int) (*account.Loan, error) {
	ret := _m.Called(ctx, customerID, customerName, initialBalance, loanAmount, interestRate, termMonths)

	var r0 *account.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) GetAccount(ctx context.Context, accountNumber string) (account.Account, error) {
	ret := _m.Called(ctx, accountNumber)

	var r0 account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) ListAccounts(ctx context.Context) ([]account.Account, error) {
	ret := _m.Called(ctx)

	var r0 []account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) ListCustomerAccounts(ctx context.Context, customerID string) ([]account.Account, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) UpdateAccount(ctx context.Context, acc account.Account) error {
	ret := _m.Called(ctx, acc)
	return ret.Error(0)
}

func (_m *MockAccountService) CloseAccount(ctx context.Context, accountNumber string) error {
	ret := _m.Called(ctx, accountNumber)
	return ret.Error(0)
}

func bankTestConfig() config.BankConfig {
	return config.BankConfig{
		TimeZone:               "Africa/Cairo",
		CheckingInterestRate:   0.01,
		SavingsInterestRate:    0.03,
		LoanInterestRate:       0.07,
		CheckingOverdraftLimit: 500.0,
		SavingsWithdrawalLimit: 3,
		DefaultLoanTermMonths:  12,
	}
}

func TestOpenAccount(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	openedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("checking account with default overdraft", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		mockCustomers.On("GetCustomer", mock.Anything, "CUS_00001").Return(testCustomer(), nil)

		opened, err := account.NewChecking("ACC_00001", "CUS_00001", "Ada Lovelace",
			decimal.NewFromInt(100), decimal.NewFromInt(500), openedAt)
		require.NoError(t, err)
		mockAccounts.On("OpenChecking", mock.Anything, "CUS_00001", "Ada Lovelace", mock.Anything, mock.Anything).
			Return(opened, nil)

		reqBody := dto.OpenAccountRequest{CustomerID: "CUS_00001", Type: "Checking", InitialBalance: "100"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.OpenAccount(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.AccountResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "ACC_00001", resp.AccountNumber)
		assert.Equal(t, "Checking", resp.Type)
		require.NotNil(t, resp.OverdraftLimit)
		assert.Equal(t, "500.00", *resp.OverdraftLimit)
		mockAccounts.AssertExpectations(t)
		mockCustomers.AssertExpectations(t)
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		mockCustomers.On("GetCustomer", mock.Anything, "CUS_99999").Return(nil, apperrors.ErrNotFound)

		reqBody := dto.OpenAccountRequest{CustomerID: "CUS_99999", Type: "Checking"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.OpenAccount(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockAccounts.AssertNotCalled(t, "OpenChecking")
	})

	t.Run("unknown account type", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		reqBody := dto.OpenAccountRequest{CustomerID: "CUS_00001", Type: "Margin"}
		reqBodyBytes, _ := json.Marshal(reqBody)
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(reqBodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.OpenAccount(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockCustomers.AssertNotCalled(t, "GetCustomer")
	})
}

func TestRepayLoan(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	openedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		loanAccount, err := account.NewLoan("ACC_00003", "CUS_00001", "Ada Lovelace",
			decimal.Zero, decimal.NewFromInt(1200), decimal.NewFromFloat(0.07), 12, openedAt)
		require.NoError(t, err)

		mockAccounts.On("GetAccount", mock.Anything, "ACC_00003").Return(loanAccount, nil)
		mockAccounts.On("UpdateAccount", mock.Anything, loanAccount).Return(nil)

		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/accounts/ACC_00003/repayments",
				bytes.NewReader([]byte(`{"amount":"107.00"}`))),
			"accountNumber", "ACC_00003")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.RepayLoan(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.AccountResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		require.NotNil(t, resp.LoanAmount)
		assert.Equal(t, "1093.00", *resp.LoanAmount)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("repayment on a checking account", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		checkingAccount, err := account.NewChecking("ACC_00001", "CUS_00001", "Ada Lovelace",
			decimal.NewFromInt(100), decimal.NewFromInt(500), openedAt)
		require.NoError(t, err)

		mockAccounts.On("GetAccount", mock.Anything, "ACC_00001").Return(checkingAccount, nil)

		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/accounts/ACC_00001/repayments",
				bytes.NewReader([]byte(`{"amount":"107.00"}`))),
			"accountNumber", "ACC_00001")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.RepayLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAccounts.AssertNotCalled(t, "UpdateAccount")
	})

	t.Run("repayment below the installment", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		loanAccount, err := account.NewLoan("ACC_00003", "CUS_00001", "Ada Lovelace",
			decimal.Zero, decimal.NewFromInt(1200), decimal.NewFromFloat(0.07), 12, openedAt)
		require.NoError(t, err)

		mockAccounts.On("GetAccount", mock.Anything, "ACC_00003").Return(loanAccount, nil)

		req := withURLParam(
			httptest.NewRequest(http.MethodPost, "/accounts/ACC_00003/repayments",
				bytes.NewReader([]byte(`{"amount":"50.00"}`))),
			"accountNumber", "ACC_00003")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.RepayLoan(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAccounts.AssertNotCalled(t, "UpdateAccount")
	})
}

func TestListAccounts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	openedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("filtered by customer", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		checkingAccount, err := account.NewChecking("ACC_00001", "CUS_00001", "Ada Lovelace",
			decimal.NewFromInt(100), decimal.NewFromInt(500), openedAt)
		require.NoError(t, err)
		mockAccounts.On("ListCustomerAccounts", mock.Anything, "CUS_00001").
			Return([]account.Account{checkingAccount}, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts?customer_id=CUS_00001", nil)
		rec := httptest.NewRecorder()

		h.ListAccounts(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.AccountResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		mockAccounts.AssertNotCalled(t, "ListAccounts")
	})
}

func TestCloseAccount(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("success", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		mockAccounts.On("CloseAccount", mock.Anything, "ACC_00001").Return(nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/ACC_00001", nil), "accountNumber", "ACC_00001")
		rec := httptest.NewRecorder()

		h.CloseAccount(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("account not found", func(t *testing.T) {
		mockAccounts := new(MockAccountService)
		mockCustomers := new(MockCustomerService)
		h := handler.NewAccountHandler(mockAccounts, mockCustomers, bankTestConfig(), logger)

		mockAccounts.On("CloseAccount", mock.Anything, "ACC_99999").Return(apperrors.ErrNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/ACC_99999", nil), "accountNumber", "ACC_99999")
		rec := httptest.NewRecorder()

		h.CloseAccount(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
