package port

import (
	"context"

	"polisure/internal/domain"
)

// ExtractInput carries the data needed for claim fact extraction.
type ExtractInput struct {
	Description string
	FileBytes   []byte
	ContentType string
}

// ExtractOutput contains the structured result from an extractor backend.
type ExtractOutput struct {
	Extraction *domain.ClaimExtraction
	ModelUsed  string
	PromptUsed string
}

// ClaimExtractor abstracts claim fact extraction. Implementations include the
// hosted LLM extractors and the local tagging pipeline.
type ClaimExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
