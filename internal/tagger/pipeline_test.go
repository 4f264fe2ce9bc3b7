package tagger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polisure/internal/domain"
	"polisure/internal/port"
)

// fakeModel returns a canned tag sequence or error.
type fakeModel struct {
	manifest port.ModelManifest
	tags     []int
	err      error
	gotInput []float32
}

func (f *fakeModel) Manifest() port.ModelManifest { return f.manifest }

func (f *fakeModel) Predict(_ context.Context, input []float32) ([]int, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.tags, nil
}

func TestPipeline_Extract_EndToEnd(t *testing.T) {
	v := NewDefaultVocabulary()

	// "Admitted City Hospital for dengue" with padding to 8.
	tags := make([]int, 8)
	tags[1] = tagIdx(t, v, "B-Hospital")
	tags[2] = tagIdx(t, v, "I-Hospital")
	tags[4] = tagIdx(t, v, "B-Disease")

	model := &fakeModel{
		manifest: port.ModelManifest{Name: "m", SequenceLength: 8, InputKind: port.InputKindTokens},
		tags:     tags,
	}
	p := NewPipeline(v, model, 512)

	ext := p.Extract(context.Background(), "Admitted City Hospital for dengue")

	require.NotNil(t, ext)
	assert.Equal(t, "Medical/Health", ext.IncidentType)
	assert.Equal(t, []string{"City Hospital"}, ext.InvolvedParties)
	assert.Equal(t, []string{"Hospital: City Hospital", "Disease: dengue"}, ext.KeyTopics)
	assert.Equal(t, "Admitted City Hospital for dengue", ext.DamageDescription)
	assert.Len(t, model.gotInput, 8) // manifest length wins over the fallback
}

func TestPipeline_Extract_AllOutsideFallsBackToUnknown(t *testing.T) {
	model := &fakeModel{
		manifest: port.ModelManifest{SequenceLength: 4},
		tags:     []int{0, 0, 0, 0},
	}
	p := NewPipeline(NewDefaultVocabulary(), model, 512)

	ext := p.Extract(context.Background(), "something happened")

	assert.Equal(t, domain.SentinelUnknownIncident, ext.IncidentType)
	assert.Equal(t, domain.SentinelNotSpecified, ext.IncidentDate)
}

func TestPipeline_Extract_TypeHintBeatsUnknown(t *testing.T) {
	v := NewDefaultVocabulary()
	tags := []int{tagIdx(t, v, "B-ClaimCause"), 0, 0, 0}
	model := &fakeModel{manifest: port.ModelManifest{SequenceLength: 4}, tags: tags}
	p := NewPipeline(v, model, 512)

	ext := p.Extract(context.Background(), "flooding damaged things")

	// ClaimCause scores no domain, so the hint bucket supplies the type.
	assert.Equal(t, "flooding", ext.IncidentType)
}

func TestPipeline_Extract_ModelFailureYieldsDegradedRecord(t *testing.T) {
	model := &fakeModel{
		manifest: port.ModelManifest{SequenceLength: 4},
		err:      errors.New("execution exception"),
	}
	p := NewPipeline(NewDefaultVocabulary(), model, 512)

	ext := p.Extract(context.Background(), "anything")

	require.NotNil(t, ext)
	assert.Equal(t, domain.SentinelModelError, ext.IncidentType)
	require.Len(t, ext.KeyTopics, 1)
	assert.Contains(t, ext.KeyTopics[0], "execution exception")
}
