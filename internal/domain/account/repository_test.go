package account

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Add(ctx context.Context, acc Account) error {
	ret := _m.Called(ctx, acc)
	return ret.Error(0)
}

func (_m *MockRepository) Get(ctx context.Context, accountNumber string) (Account, error) {
	ret := _m.Called(ctx, accountNumber)

	var r0 Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) List(ctx context.Context) ([]Account, error) {
	ret := _m.Called(ctx)

	var r0 []Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ListByCustomer(ctx context.Context, customerID string) ([]Account, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Update(ctx context.Context, acc Account) error {
	ret := _m.Called(ctx, acc)
	return ret.Error(0)
}

func (_m *MockRepository) Delete(ctx context.Context, accountNumber string) error {
	ret := _m.Called(ctx, accountNumber)
	return ret.Error(0)
}
