package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"polisure/internal/domain"
	"polisure/internal/service"
)

// MockChatService is a mock implementation of service.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, input service.ChatInput) (*domain.ChatAnswer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatAnswer), args.Error(1)
}
