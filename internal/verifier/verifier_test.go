package verifier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polisure/internal/domain"
	"polisure/internal/verifier"
)

type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testExtraction() *domain.ClaimExtraction {
	return &domain.ClaimExtraction{
		IncidentType:      "Motor/Auto",
		IncidentDate:      "14-02-2026",
		Location:          "Pune",
		InvolvedParties:   []string{"Sharma Motors"},
		DamageDescription: "front bumper crushed in a collision",
		EstimatedCost:     "32000",
	}
}

func testExcerpts() []domain.PolicyChunk {
	return []domain.PolicyChunk{
		{PolicyName: "motor_comprehensive", Ordinal: 0, Text: "Collision damage to the insured vehicle is covered."},
		{PolicyName: "health_family", Ordinal: 2, Text: "Hospitalization expenses are covered."},
	}
}

func TestLLMVerifier_Eligible(t *testing.T) {
	completer := &stubCompleter{
		reply: `{"eligible":true,"matched_policy":"motor_comprehensive","reasoning":"Collision damage is covered.","suggested_policy":"","confidence":0.9}`,
	}
	v := verifier.NewLLMVerifier(completer)

	result, err := v.Verify(context.Background(), testExtraction(), testExcerpts())
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, "motor_comprehensive", result.MatchedPolicy)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)

	// The prompt carries both the extraction and the excerpts.
	assert.Contains(t, completer.lastUser, "Motor/Auto")
	assert.Contains(t, completer.lastUser, "motor_comprehensive")
	assert.Contains(t, completer.lastUser, "Collision damage")
}

func TestLLMVerifier_CodeFencedReply(t *testing.T) {
	completer := &stubCompleter{
		reply: "```json\n{\"eligible\":false,\"reasoning\":\"No relevant excerpt.\",\"confidence\":0.4}\n```",
	}
	result, err := verifier.NewLLMVerifier(completer).Verify(context.Background(), testExtraction(), testExcerpts())
	require.NoError(t, err)
	assert.False(t, result.Eligible)
}

func TestLLMVerifier_ConfidenceClamped(t *testing.T) {
	completer := &stubCompleter{
		reply: `{"eligible":true,"confidence":1.7}`,
	}
	result, err := verifier.NewLLMVerifier(completer).Verify(context.Background(), testExtraction(), testExcerpts())
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Confidence)

	completer.reply = `{"eligible":false,"confidence":-0.5}`
	result, err = verifier.NewLLMVerifier(completer).Verify(context.Background(), testExtraction(), testExcerpts())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestLLMVerifier_NoExcerpts(t *testing.T) {
	_, err := verifier.NewLLMVerifier(&stubCompleter{}).Verify(context.Background(), testExtraction(), nil)
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestLLMVerifier_CompleterError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream down")}
	_, err := verifier.NewLLMVerifier(completer).Verify(context.Background(), testExtraction(), testExcerpts())
	assert.Error(t, err)
}

func TestOfflineVerifier(t *testing.T) {
	v := verifier.NewOfflineVerifier()

	result, err := v.Verify(context.Background(), testExtraction(), nil)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Equal(t, domain.SentinelOfflineMode, result.MatchedPolicy)
	assert.Equal(t, domain.SentinelOfflineMode, result.SuggestedPolicy)
	assert.Equal(t, 0.0, result.Confidence)
	assert.NotEmpty(t, result.Reasoning)
}
