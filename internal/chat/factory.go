package chat

import (
	"fmt"

	"polisure/internal/port"
)

// NewCompleter selects a chat completion client by provider name.
func NewCompleter(provider, apiKey, model string, timeoutSecs int) (port.ChatCompleter, error) {
	switch provider {
	case "anthropic", "claude":
		return NewAnthropicCompleter(apiKey, model, timeoutSecs), nil
	case "openai":
		return NewOpenAICompleter(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", provider)
	}
}
