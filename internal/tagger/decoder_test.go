package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagIdx resolves a BIO tag name to its index in the default layout.
func tagIdx(t *testing.T, v *TagVocabulary, name string) int {
	t.Helper()
	for i := 0; i < v.TagCount(); i++ {
		if v.TagName(i) == name {
			return i
		}
	}
	t.Fatalf("tag %q not in vocabulary", name)
	return -1
}

func TestDecodeSpans_BIOStitching(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"Patient", "City", "Hospital", "for", "dengue", "."}
	tags := []int{
		tagIdx(t, v, "O"),
		tagIdx(t, v, "B-Hospital"),
		tagIdx(t, v, "I-Hospital"),
		tagIdx(t, v, "O"),
		tagIdx(t, v, "B-Disease"),
		tagIdx(t, v, "O"),
	}

	spans := DecodeSpans(words, tags, v)

	require.Len(t, spans, 2)
	assert.Equal(t, "Hospital", spans[0].Type)
	assert.Equal(t, "City Hospital", spans[0].Text)
	assert.Equal(t, 1, spans[0].Start)
	assert.Equal(t, "Disease", spans[1].Type)
	assert.Equal(t, "dengue", spans[1].Text)
}

func TestDecodeSpans_MismatchedContinuation(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"dengue", "fever"}
	tags := []int{tagIdx(t, v, "B-Disease"), tagIdx(t, v, "I-Hospital")}

	spans := DecodeSpans(words, tags, v)

	// The I-Hospital neither extends the Disease span nor opens a new one.
	require.Len(t, spans, 1)
	assert.Equal(t, "Disease", spans[0].Type)
	assert.Equal(t, "dengue", spans[0].Text)
}

func TestDecodeSpans_OrphanContinuationOpensNothing(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"dengue", "fever"}
	tags := []int{tagIdx(t, v, "I-Disease"), tagIdx(t, v, "I-Disease")}

	spans := DecodeSpans(words, tags, v)
	assert.Empty(t, spans)
}

func TestDecodeSpans_PaddingStopsScan(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"dengue", PadToken, "Hospital"}
	tags := []int{
		tagIdx(t, v, "B-Disease"),
		tagIdx(t, v, "I-Disease"),
		tagIdx(t, v, "B-Hospital"),
	}

	spans := DecodeSpans(words, tags, v)

	// Nothing at or beyond the pad sentinel may enter a span, regardless of
	// tag content there.
	require.Len(t, spans, 1)
	assert.Equal(t, "dengue", spans[0].Text)
}

func TestDecodeSpans_UnknownIndexDefaultsToOutside(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"City", "Hospital"}
	tags := []int{tagIdx(t, v, "B-Hospital"), 9999}

	spans := DecodeSpans(words, tags, v)

	require.Len(t, spans, 1)
	assert.Equal(t, "City", spans[0].Text)
}

func TestDecodeSpans_OpenSpanEmittedAtEnd(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"Grand", "Hyatt"}
	tags := []int{tagIdx(t, v, "B-Hotel"), tagIdx(t, v, "I-Hotel")}

	spans := DecodeSpans(words, tags, v)

	require.Len(t, spans, 1)
	assert.Equal(t, "Grand Hyatt", spans[0].Text)
}

func TestDecodeSpans_BackToBackBegins(t *testing.T) {
	v := NewDefaultVocabulary()
	words := []string{"dengue", "malaria"}
	tags := []int{tagIdx(t, v, "B-Disease"), tagIdx(t, v, "B-Disease")}

	spans := DecodeSpans(words, tags, v)

	require.Len(t, spans, 2)
	assert.Equal(t, "dengue", spans[0].Text)
	assert.Equal(t, "malaria", spans[1].Text)
}
