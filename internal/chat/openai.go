package chat

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o"

// OpenAICompleter implements port.ChatCompleter using the OpenAI chat
// completions API.
type OpenAICompleter struct {
	client *goopenai.Client
	model  string
}

func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAICompleter{
		client: goopenai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAICompleterWithClient creates a completer around an existing client.
// Used in tests to point at a fake server.
func NewOpenAICompleterWithClient(client *goopenai.Client, model string) *OpenAICompleter {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAICompleter{client: client, model: model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []goopenai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: user,
	})

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("calling openai chat API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
