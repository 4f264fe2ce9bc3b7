package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polisure/internal/corpus"
	"polisure/internal/domain"
	"polisure/internal/service"
	"polisure/mocks"
)

func TestChatService_Ask(t *testing.T) {
	completer := new(mocks.MockChatCompleter)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Collision damage is covered under motor_comprehensive.", nil)

	svc := service.NewChatService(completer, builtIndex(), 2)

	answer, err := svc.Ask(context.Background(), service.ChatInput{
		Question: "is collision damage to my vehicle covered?",
	})
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "motor_comprehensive")
	assert.Contains(t, answer.Policies, "motor_comprehensive")

	// The prompt carries the retrieved excerpts and the question.
	userPrompt := completer.Calls[0].Arguments.String(2)
	assert.Contains(t, userPrompt, "POLICY EXCERPTS")
	assert.Contains(t, userPrompt, "QUESTION: is collision damage to my vehicle covered?")
}

func TestChatService_Ask_EmptyQuestion(t *testing.T) {
	svc := service.NewChatService(new(mocks.MockChatCompleter), builtIndex(), 2)
	_, err := svc.Ask(context.Background(), service.ChatInput{Question: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestChatService_Ask_Offline(t *testing.T) {
	svc := service.NewChatService(nil, builtIndex(), 2)
	_, err := svc.Ask(context.Background(), service.ChatInput{Question: "anything covered?"})
	assert.ErrorIs(t, err, domain.ErrVerifierOffline)
}

func TestChatService_Ask_EmptyCorpus(t *testing.T) {
	svc := service.NewChatService(new(mocks.MockChatCompleter), corpus.NewIndex(nil, 2, 0), 2)
	_, err := svc.Ask(context.Background(), service.ChatInput{Question: "anything covered?"})
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}
