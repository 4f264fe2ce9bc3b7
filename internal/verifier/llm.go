package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"polisure/internal/domain"
	"polisure/internal/extractor"
	"polisure/internal/port"
)

const verifierSystemPrompt = `You are an insurance claim eligibility analyst. You are given a structured claim extraction and excerpts from the insurer's policy corpus. Decide whether the claim is eligible under any of the excerpted policies.

Respond with ONLY a JSON object in this exact format:
{
  "eligible": true,
  "matched_policy": "name of the policy the claim falls under, or \"\" if none",
  "reasoning": "2-4 sentences explaining the decision with reference to the excerpts",
  "suggested_policy": "policy the claimant should hold for this kind of loss, or \"\" if eligible",
  "confidence": 0.85
}

Rules:
- Base the decision only on the provided excerpts. Never invent policy terms.
- confidence is a number between 0.0 and 1.0.
- If no excerpt is relevant, set eligible to false and explain why.
- Do not include any text outside the JSON object.`

// LLMVerifier implements port.Verifier by prompting a chat model with the
// extraction and the retrieved policy excerpts.
type LLMVerifier struct {
	completer port.ChatCompleter
}

func NewLLMVerifier(completer port.ChatCompleter) *LLMVerifier {
	return &LLMVerifier{completer: completer}
}

func (v *LLMVerifier) Verify(ctx context.Context, extraction *domain.ClaimExtraction, excerpts []domain.PolicyChunk) (*domain.VerificationResult, error) {
	if extraction == nil {
		return nil, fmt.Errorf("verifying claim: nil extraction")
	}
	if len(excerpts) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	reply, err := v.completer.Complete(ctx, verifierSystemPrompt, buildVerifierUserPrompt(extraction, excerpts))
	if err != nil {
		return nil, fmt.Errorf("verifying claim: %w", err)
	}

	var result domain.VerificationResult
	if err := json.Unmarshal([]byte(extractor.RepairJSON(reply)), &result); err != nil {
		return nil, fmt.Errorf("parsing verifier JSON output: %w", err)
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return &result, nil
}

func buildVerifierUserPrompt(extraction *domain.ClaimExtraction, excerpts []domain.PolicyChunk) string {
	var b strings.Builder

	b.WriteString("CLAIM EXTRACTION:\n")
	extJSON, err := json.MarshalIndent(extraction, "", "  ")
	if err != nil {
		b.WriteString(fmt.Sprintf("incident_type: %s\n", extraction.IncidentType))
	} else {
		b.Write(extJSON)
	}

	b.WriteString("\n\nPOLICY EXCERPTS:\n")
	for i, chunk := range excerpts {
		b.WriteString(fmt.Sprintf("[%d] %s (section %d)\n%s\n\n", i+1, chunk.PolicyName, chunk.Ordinal+1, chunk.Text))
	}
	return b.String()
}
