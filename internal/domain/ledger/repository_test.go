package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pybank/internal/domain/account"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (_m *MockTransactionRepository) Append(ctx context.Context, tx Transaction) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockTransactionRepository) List(ctx context.Context) ([]Transaction, error) {
	ret := _m.Called(ctx)

	var r0 []Transaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Transaction)
	}
	return r0, ret.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (_m *MockAccountRepository) Add(ctx context.Context, acc account.Account) error {
	ret := _m.Called(ctx, acc)
	return ret.Error(0)
}

func (_m *MockAccountRepository) Get(ctx context.Context, accountNumber string) (account.Account, error) {
	ret := _m.Called(ctx, accountNumber)

	var r0 account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) List(ctx context.Context) ([]account.Account, error) {
	ret := _m.Called(ctx)

	var r0 []account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]account.Account, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) Update(ctx context.Context, acc account.Account) error {
	ret := _m.Called(ctx, acc)
	return ret.Error(0)
}

func (_m *MockAccountRepository) Delete(ctx context.Context, accountNumber string) error {
	ret := _m.Called(ctx, accountNumber)
	return ret.Error(0)
}
