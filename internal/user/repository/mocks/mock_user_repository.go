package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	uDomain "github.com/mauryaent/mtech-store/internal/user/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *uDomain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1 // mimic the autoincrement id assigned on insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*uDomain.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*uDomain.User), args.Error(1)
	}
	return nil, args.Error(1)
}
