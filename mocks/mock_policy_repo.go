package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polisure/internal/domain"
)

// MockPolicyRepo is a mock implementation of port.PolicyRepository.
type MockPolicyRepo struct {
	mock.Mock
}

func (m *MockPolicyRepo) Upsert(ctx context.Context, doc *domain.PolicyDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockPolicyRepo) GetByName(ctx context.Context, name string) (*domain.PolicyDocument, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PolicyDocument), args.Error(1)
}

func (m *MockPolicyRepo) List(ctx context.Context) ([]domain.PolicyDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PolicyDocument), args.Error(1)
}

func (m *MockPolicyRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
