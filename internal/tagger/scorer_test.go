package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainScorer_Argmax(t *testing.T) {
	s := NewDomainScorer()
	s.Observe("Hospital")
	s.Observe("Disease")
	s.Observe("Vehicle")

	label, ok := s.Leader()
	assert.True(t, ok)
	assert.Equal(t, "Medical/Health", label)
}

func TestDomainScorer_TieBreakPrefersDeclarationOrder(t *testing.T) {
	// Vehicle and Airline each add +2 to exactly one domain; Motor/Auto is
	// declared before Travel, so it wins the tie.
	s := NewDomainScorer()
	s.Observe("Vehicle")
	s.Observe("Airline")

	label, ok := s.Leader()
	assert.True(t, ok)
	assert.Equal(t, "Motor/Auto", label)
}

func TestDomainScorer_MedicalWinsAnyTie(t *testing.T) {
	s := NewDomainScorer()
	s.Observe("Hospital")
	s.Observe("Vehicle")

	label, _ := s.Leader()
	assert.Equal(t, "Medical/Health", label)
}

func TestDomainScorer_ZeroScores(t *testing.T) {
	s := NewDomainScorer()
	s.Observe("PolicyName")

	_, ok := s.Leader()
	assert.False(t, ok)
}

func TestDomainScorer_SpanMayScoreMultipleDomains(t *testing.T) {
	// "PropertyLossAssessment" hits loss, property, and assessment but the
	// weight is applied once per rule, not per keyword.
	s := NewDomainScorer()
	s.Observe("PropertyLossAssessment")

	label, ok := s.Leader()
	assert.True(t, ok)
	assert.Equal(t, "Home/Property", label)
	assert.Equal(t, DomainWeight, s.scores[3])
}
