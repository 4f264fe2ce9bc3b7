package port

import "context"

// Embedder produces dense vector embeddings for a batch of texts. The returned
// slice is parallel to the input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
