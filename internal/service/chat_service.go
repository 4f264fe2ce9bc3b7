package service

import (
	"context"
	"fmt"
	"strings"

	"polisure/internal/corpus"
	"polisure/internal/domain"
	"polisure/internal/port"
)

const chatSystemPrompt = `You are a policy assistant for an insurance triage team. Answer questions using ONLY the provided policy excerpts. If the excerpts do not contain the answer, say so plainly. Keep answers short and cite the policy name you relied on.`

// ChatInput is the DTO for policy chat requests.
type ChatInput struct {
	Question string `json:"question" binding:"required"`
}

// ChatService answers free-form questions against the policy corpus.
type ChatService interface {
	Ask(ctx context.Context, input ChatInput) (*domain.ChatAnswer, error)
}

type chatService struct {
	completer port.ChatCompleter
	index     *corpus.Index
	topK      int
}

// NewChatService creates a new ChatService implementation. completer may be
// nil for offline deployments.
func NewChatService(completer port.ChatCompleter, index *corpus.Index, topK int) ChatService {
	return &chatService{
		completer: completer,
		index:     index,
		topK:      topK,
	}
}

func (s *chatService) Ask(ctx context.Context, input ChatInput) (*domain.ChatAnswer, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domain.ErrEmptyDescription
	}
	if s.completer == nil {
		return nil, domain.ErrVerifierOffline
	}

	excerpts, err := s.index.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("chatService.Ask: %w", err)
	}

	var b strings.Builder
	b.WriteString("POLICY EXCERPTS:\n")
	seen := make(map[string]bool)
	var policies []string
	for i, chunk := range excerpts {
		b.WriteString(fmt.Sprintf("[%d] %s (section %d)\n%s\n\n", i+1, chunk.PolicyName, chunk.Ordinal+1, chunk.Text))
		if !seen[chunk.PolicyName] {
			seen[chunk.PolicyName] = true
			policies = append(policies, chunk.PolicyName)
		}
	}
	b.WriteString("QUESTION: ")
	b.WriteString(question)

	answer, err := s.completer.Complete(ctx, chatSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("chatService.Ask: %w", err)
	}

	return &domain.ChatAnswer{
		Answer:   answer,
		Policies: policies,
	}, nil
}
