// Package openai provides a text embedder backed by the OpenAI embeddings
// API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

const defaultModel = "text-embedding-3-small"

// Embedder implements port.Embedder using the OpenAI embeddings endpoint.
type Embedder struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

// NewEmbedder creates an Embedder. An empty model selects
// text-embedding-3-small.
func NewEmbedder(apiKey, model string) *Embedder {
	if model == "" {
		model = defaultModel
	}
	return &Embedder{
		client: goopenai.NewClient(apiKey),
		model:  goopenai.EmbeddingModel(model),
	}
}

// NewEmbedderWithClient creates an Embedder around an existing client. Used
// in tests to point at a fake server.
func NewEmbedderWithClient(client *goopenai.Client, model string) *Embedder {
	if model == "" {
		model = defaultModel
	}
	return &Embedder{client: client, model: goopenai.EmbeddingModel(model)}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embeddings response: index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
