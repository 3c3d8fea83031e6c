package user

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Add(ctx context.Context, u *User) error {
	ret := _m.Called(ctx, u)
	return ret.Error(0)
}

func (_m *MockRepository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	ret := _m.Called(ctx, identifier)

	var r0 *User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*User)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) List(ctx context.Context) ([]*User, error) {
	ret := _m.Called(ctx)

	var r0 []*User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*User)
	}
	return r0, ret.Error(1)
}
