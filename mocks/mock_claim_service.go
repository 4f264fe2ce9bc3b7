package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"polisure/internal/domain"
	"polisure/internal/service"
)

// MockClaimService is a mock implementation of service.ClaimService.
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) Submit(ctx context.Context, input service.SubmitClaimInput) (*domain.Claim, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockClaimService) List(ctx context.Context, status string, offset, limit int) ([]domain.Claim, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Claim), args.Int(1), args.Error(2)
}

func (m *MockClaimService) Export(ctx context.Context, format service.ExportFormat) ([]byte, string, error) {
	args := m.Called(ctx, format)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockClaimService) GetAttachmentURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
