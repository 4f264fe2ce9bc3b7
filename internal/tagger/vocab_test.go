package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultVocabulary_Layout(t *testing.T) {
	v := NewDefaultVocabulary()

	assert.Equal(t, "O", v.TagName(0))
	assert.Equal(t, "B-PersonName", v.TagName(1))
	assert.Equal(t, "I-PersonName", v.TagName(2))
	assert.Equal(t, 2*len(DefaultEntityTypes)+1, v.TagCount())
	assert.False(t, v.HasWordIndex())
}

func TestTagName_UnknownIndexIsOutside(t *testing.T) {
	v := NewDefaultVocabulary()
	assert.Equal(t, "O", v.TagName(-1))
	assert.Equal(t, "O", v.TagName(10000))
}

func TestParseVocabularyAsset_TagOverrides(t *testing.T) {
	v := ParseVocabularyAsset([]byte(`{"tag_index":{"0":"O","1":"B-Injury","2":"I-Injury"}}`))

	assert.Equal(t, "B-Injury", v.TagName(1))
	assert.Equal(t, "I-Injury", v.TagName(2))
}

func TestParseVocabularyAsset_MalformedDegradesToDefaults(t *testing.T) {
	v := ParseVocabularyAsset([]byte(`{not json`))

	assert.Equal(t, "O", v.TagName(0))
	assert.False(t, v.HasWordIndex())
}

func TestParseVocabularyAsset_NonIntegerTagKeyIgnored(t *testing.T) {
	v := ParseVocabularyAsset([]byte(`{"tag_index":{"first":"B-Injury"}}`))
	assert.Equal(t, "O", v.TagName(0))
}

func TestEntityType(t *testing.T) {
	assert.Equal(t, "Hospital", EntityType("B-Hospital"))
	assert.Equal(t, "Hospital", EntityType("I-Hospital"))
	assert.Equal(t, "", EntityType("O"))
	assert.Equal(t, "", EntityType("Hospital"))
}
