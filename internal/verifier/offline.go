// Package verifier renders eligibility verdicts for extracted claims against
// retrieved policy excerpts.
package verifier

import (
	"context"

	"polisure/internal/domain"
)

// OfflineVerifier is the short-circuit used when the deployment has no
// reasoning backend. It never touches the network and always returns a
// not-eligible verdict marked with the offline sentinel.
type OfflineVerifier struct{}

func NewOfflineVerifier() *OfflineVerifier {
	return &OfflineVerifier{}
}

func (v *OfflineVerifier) Verify(ctx context.Context, extraction *domain.ClaimExtraction, excerpts []domain.PolicyChunk) (*domain.VerificationResult, error) {
	return &domain.VerificationResult{
		Eligible:        false,
		MatchedPolicy:   domain.SentinelOfflineMode,
		Reasoning:       "Verification is unavailable in offline mode. The claim was recorded without an eligibility decision.",
		SuggestedPolicy: domain.SentinelOfflineMode,
		Confidence:      0,
	}, nil
}
