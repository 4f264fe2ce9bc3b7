package tagger

import (
	"strings"

	"polisure/internal/domain"
)

// Assemble packages decoded spans, routed buckets, and the scorer's chosen
// incident type into the canonical ClaimExtraction record, substituting
// sentinels for every empty field. Pure aggregation.
func Assemble(spans []EntitySpan, buckets *ExtractionBuckets, incidentType, description string) *domain.ClaimExtraction {
	ext := &domain.ClaimExtraction{
		IncidentType:      incidentType,
		IncidentDate:      domain.SentinelNotSpecified,
		Location:          domain.SentinelNotSpecified,
		InvolvedParties:   []string{domain.SentinelNotSpecified},
		DamageDescription: description,
		EstimatedCost:     domain.SentinelNotSpecified,
	}

	if len(buckets.Dates) > 0 {
		ext.IncidentDate = buckets.Dates[0]
	}
	if len(buckets.Locations) > 0 {
		ext.Location = strings.Join(buckets.Locations, ", ")
	}
	if len(buckets.Parties) > 0 {
		ext.InvolvedParties = buckets.Parties
	}
	if len(buckets.Costs) > 0 {
		ext.EstimatedCost = buckets.Costs[0]
	}

	ext.KeyTopics = keyTopics(spans)
	return ext
}

// keyTopics lists "Type: text" for every span in order of first appearance,
// de-duplicated and capped at MaxKeyTopics.
func keyTopics(spans []EntitySpan) []string {
	topics := make([]string, 0, len(spans))
	seen := make(map[string]bool, len(spans))
	for _, sp := range spans {
		topic := sp.Type + ": " + sp.Text
		if seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
		if len(topics) == domain.MaxKeyTopics {
			break
		}
	}
	return topics
}

// DegradedExtraction converts an upstream model failure into a structurally
// valid record: incident type is the Model Error marker and key topics carry a
// single failure entry. The pipeline never raises past this boundary.
func DegradedExtraction(description string, err error) *domain.ClaimExtraction {
	return &domain.ClaimExtraction{
		IncidentType:      domain.SentinelModelError,
		IncidentDate:      domain.SentinelNotSpecified,
		Location:          domain.SentinelNotSpecified,
		InvolvedParties:   []string{domain.SentinelNotSpecified},
		DamageDescription: description,
		EstimatedCost:     domain.SentinelNotSpecified,
		KeyTopics:         []string{"Extraction failed: " + err.Error()},
	}
}
