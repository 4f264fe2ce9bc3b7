package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polisure/internal/config"
	"polisure/internal/extractor"
	claude "polisure/internal/extractor/claude"
	"polisure/internal/port"
)

func newTestExtractor(serverURL string) *claude.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewExtractorWithEndpoint(cfg, serverURL)
}

func TestClaudeExtractor_Extract_PDF_Success(t *testing.T) {
	responseBody := map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": `{"incident_type":"Medical/Health","incident_date":"12-03-2025","location":"Chennai","involved_parties":["City Hospital"],"damage_description":"hospitalized for dengue","estimated_cost":"45000","key_topics":["Hospital: City Hospital"]}`,
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])

		content := msg["content"].([]interface{})
		require.Len(t, content, 2)

		docBlock := content[0].(map[string]interface{})
		assert.Equal(t, "document", docBlock["type"])

		textBlock := content[1].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.Contains(t, textBlock["text"], "hospitalized for dengue")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(responseBody)
	}))
	defer server.Close()

	ext := newTestExtractor(server.URL)
	result, err := ext.Extract(context.Background(), port.ExtractInput{
		Description: "hospitalized for dengue",
		FileBytes:   []byte("%PDF-1.4 test content"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "claude-sonnet-4-20250514", result.ModelUsed)
	assert.NotEmpty(t, result.PromptUsed)
	assert.Equal(t, "Medical/Health", result.Extraction.IncidentType)
	assert.Equal(t, []string{"City Hospital"}, result.Extraction.InvolvedParties)
}

func TestClaudeExtractor_Extract_TextOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)

		messages := reqBody["messages"].([]interface{})
		content := messages[0].(map[string]interface{})["content"].([]interface{})
		// No attachment: single text block.
		require.Len(t, content, 1)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"incident_type":"Motor/Auto"}`},
			},
		})
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Description: "rear-ended at a stoplight",
	})

	require.NoError(t, err)
	assert.Equal(t, "Motor/Auto", result.Extraction.IncidentType)
}

func TestClaudeExtractor_Extract_CodeFencedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "```json\n{\"incident_type\":\"Travel\"}\n```"},
			},
		})
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Description: "lost luggage",
	})

	require.NoError(t, err)
	assert.Equal(t, "Travel", result.Extraction.IncidentType)
}

func TestClaudeExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		Description: "anything",
	})

	require.Error(t, err)
	var rlErr *extractor.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 30, int(rlErr.RetryAfter.Seconds()))
}

func TestClaudeExtractor_Extract_UnsupportedContentType(t *testing.T) {
	_, err := newTestExtractor("http://localhost:0").Extract(context.Background(), port.ExtractInput{
		Description: "anything",
		FileBytes:   []byte("GIF89a"),
		ContentType: "image/gif",
	})
	assert.Error(t, err)
}
