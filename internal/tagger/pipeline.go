package tagger

import (
	"context"
	"log"

	"polisure/internal/domain"
	"polisure/internal/port"
)

// Pipeline runs the local extraction path: tokenize, infer, decode, route,
// score, assemble. One extraction call processes to completion before its
// result is used; no shared mutable state between calls.
type Pipeline struct {
	vocab  *TagVocabulary
	model  port.TagModel
	seqLen int
}

// NewPipeline wires a pipeline over a loaded model handle. seqLen is the
// fallback sequence length when the model manifest declares none.
func NewPipeline(vocab *TagVocabulary, model port.TagModel, seqLen int) *Pipeline {
	if seqLen <= 0 {
		seqLen = 512
	}
	return &Pipeline{vocab: vocab, model: model, seqLen: seqLen}
}

// Extract turns a claim description into a ClaimExtraction. Model failures
// are converted into a degraded record; this method never returns an error.
func (p *Pipeline) Extract(ctx context.Context, description string) *domain.ClaimExtraction {
	length := p.seqLen
	if ml := p.model.Manifest().SequenceLength; ml > 0 {
		length = ml
	}

	seq := Encode(description, length, p.vocab)

	input := make([]float32, len(seq.Indices))
	for i, idx := range seq.Indices {
		input[i] = float32(idx)
	}

	tags, err := p.model.Predict(ctx, input)
	if err != nil {
		log.Printf("tagger.Pipeline: model inference failed: %v", err)
		return DegradedExtraction(description, err)
	}

	spans := DecodeSpans(seq.Words, tags, p.vocab)

	buckets := &ExtractionBuckets{}
	scorer := NewDomainScorer()
	for _, sp := range spans {
		RouteSpan(buckets, sp)
		scorer.Observe(sp.Type)
	}

	incidentType, ok := scorer.Leader()
	if !ok {
		if len(buckets.TypeHints) > 0 {
			incidentType = buckets.TypeHints[0]
		} else {
			incidentType = domain.SentinelUnknownIncident
		}
	}

	return Assemble(spans, buckets, incidentType, description)
}
