package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"userdesk/internal/model"
)

type MockUserList struct {
	mock.Mock
}

func (m *MockUserList) Initialize(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUserList) FetchAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUserList) AddUser(ctx context.Context, name, email string) error {
	return m.Called(ctx, name, email).Error(0)
}

func (m *MockUserList) Submit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUserList) DeleteUser(ctx context.Context, id model.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserList) SetName(name string) {
	m.Called(name)
}

func (m *MockUserList) SetEmail(email string) {
	m.Called(email)
}

func (m *MockUserList) SetInputs(name, email string) {
	m.Called(name, email)
}

func (m *MockUserList) State() model.ViewState {
	return m.Called().Get(0).(model.ViewState)
}

func (m *MockUserList) Subscribe(fn func(model.ViewState)) func() {
	args := m.Called(fn)
	if f, ok := args.Get(0).(func()); ok {
		return f
	}
	return func() {}
}

func (m *MockUserList) Close() {
	m.Called()
}
