package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userdesk/internal/model"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockClient) Create(ctx context.Context, req model.CreateUserRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockClient) Delete(ctx context.Context, id model.ID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
