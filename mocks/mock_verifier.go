package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polisure/internal/domain"
)

// MockVerifier is a mock implementation of port.Verifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, extraction *domain.ClaimExtraction, excerpts []domain.PolicyChunk) (*domain.VerificationResult, error) {
	args := m.Called(ctx, extraction, excerpts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationResult), args.Error(1)
}
