package port

import (
	"context"

	"polisure/internal/domain"
)

// Verifier renders an eligibility verdict for an extracted claim against a set
// of policy excerpts. Implementations never return a nil result on a nil error.
type Verifier interface {
	Verify(ctx context.Context, extraction *domain.ClaimExtraction, excerpts []domain.PolicyChunk) (*domain.VerificationResult, error)
}
