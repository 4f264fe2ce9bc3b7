package local

import (
	"context"
	"fmt"
	"log"
	"time"

	"polisure/internal/config"
	"polisure/internal/domain"
	"polisure/internal/port"
	"polisure/internal/tagger"
)

// Extractor implements port.ClaimExtractor over the local tagging pipeline.
// Model failures never escape: every Extract call returns a structurally
// valid record, degraded at worst.
type Extractor struct {
	pipeline *tagger.Pipeline
	model    port.TagModel
	embedder port.Embedder // used only for embedding-input models
	name     string
}

// NewExtractor loads the model manifest and vocabulary asset and wires the
// pipeline. The model handle is fetched through the registry, so repeated
// construction reuses the cached handle.
func NewExtractor(cfg *config.TaggerConfig, registry *tagger.Registry, embedder port.Embedder) (*Extractor, error) {
	if cfg.InferenceURL == "" {
		return nil, fmt.Errorf("local extractor requires tagger.inference_url")
	}

	manifest := port.ModelManifest{
		Name:           "local-tagger",
		InputKind:      port.InputKindTokens,
		InputDType:     port.DTypeInt32,
		SequenceLength: cfg.SequenceLength,
	}
	if cfg.ManifestPath != "" {
		m, err := tagger.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		manifest = *m
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	model, err := registry.Load(manifest.Name, func() (port.TagModel, error) {
		return tagger.NewHTTPModel(manifest, cfg.InferenceURL, timeout), nil
	})
	if err != nil {
		return nil, err
	}

	vocab := tagger.LoadVocabularyFile(cfg.VocabularyPath)

	return &Extractor{
		pipeline: tagger.NewPipeline(vocab, model, cfg.SequenceLength),
		model:    model,
		embedder: embedder,
		name:     manifest.Name,
	}, nil
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	var ext *domain.ClaimExtraction
	if e.model.Manifest().InputKind == port.InputKindEmbedding {
		ext = e.extractViaEmbedding(ctx, input.Description)
	} else {
		ext = e.pipeline.Extract(ctx, input.Description)
	}

	return &port.ExtractOutput{
		Extraction: ext,
		ModelUsed:  e.name,
	}, nil
}

// extractViaEmbedding handles models whose declared input is a whole-text
// embedding vector: the single predicted class indexes the fixed domain
// label order, so no entity spans are recovered.
func (e *Extractor) extractViaEmbedding(ctx context.Context, description string) *domain.ClaimExtraction {
	if e.embedder == nil {
		return tagger.DegradedExtraction(description, fmt.Errorf("embedding-input model configured without an embedder"))
	}

	vecs, err := e.embedder.Embed(ctx, []string{description})
	if err != nil || len(vecs) == 0 {
		if err == nil {
			err = fmt.Errorf("embedder returned no vectors")
		}
		log.Printf("extractor.local: embedding failed: %v", err)
		return tagger.DegradedExtraction(description, err)
	}

	classes, err := e.model.Predict(ctx, vecs[0])
	if err != nil || len(classes) == 0 {
		if err == nil {
			err = fmt.Errorf("model returned no prediction")
		}
		log.Printf("extractor.local: model inference failed: %v", err)
		return tagger.DegradedExtraction(description, err)
	}

	labels := tagger.DomainLabels()
	incidentType := domain.SentinelUnknownIncident
	if c := classes[0]; c >= 0 && c < len(labels) {
		incidentType = labels[c]
	}

	return tagger.Assemble(nil, &tagger.ExtractionBuckets{}, incidentType, description)
}
