package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polisure/internal/domain"
)

// MockPolicyService is a mock implementation of service.PolicyService.
type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) List(ctx context.Context) ([]domain.PolicyDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PolicyDocument), args.Error(1)
}

func (m *MockPolicyService) Reload(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPolicyService) WarmIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
