package tagger

import "strings"

// DomainWeight is added to every matching domain per qualifying span.
const DomainWeight = 2

// domainRule scores a claim domain from entity type name keywords. Declaration
// order is the tie-break: a later domain only overrides the leader on a
// strictly greater score.
type domainRule struct {
	Label    string
	keywords []string
}

var domainTable = []domainRule{
	{Label: "Medical/Health", keywords: []string{"hospital", "disease", "treatment", "room"}},
	{Label: "Motor/Auto", keywords: []string{"vehicle", "garage", "part", "repair"}},
	{Label: "Travel", keywords: []string{"trip", "travel", "airline", "hotel"}},
	{Label: "Home/Property", keywords: []string{"property", "loss", "assessment"}},
}

// DomainLabels returns the fixed domain label order.
func DomainLabels() []string {
	labels := make([]string, len(domainTable))
	for i, d := range domainTable {
		labels[i] = d.Label
	}
	return labels
}

// DomainScorer accumulates weighted votes per claim domain. One instance per
// request; not safe for concurrent use and not meant to be.
type DomainScorer struct {
	scores []int
}

// NewDomainScorer returns a scorer with all domains at zero.
func NewDomainScorer() *DomainScorer {
	return &DomainScorer{scores: make([]int, len(domainTable))}
}

// Observe inspects a span's entity type name and adds DomainWeight to every
// domain whose keyword family matches. A span may contribute to more than one
// domain.
func (s *DomainScorer) Observe(entityType string) {
	typeName := strings.ToLower(entityType)
	for i, rule := range domainTable {
		for _, kw := range rule.keywords {
			if strings.Contains(typeName, kw) {
				s.scores[i] += DomainWeight
				break
			}
		}
	}
}

// Leader returns the domain with the strictly highest score. ok is false when
// every domain scored zero; ties resolve to the first-declared domain.
func (s *DomainScorer) Leader() (label string, ok bool) {
	best := 0
	bestIdx := -1
	for i, score := range s.scores {
		if score > best {
			best = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return domainTable[bestIdx].Label, true
}
