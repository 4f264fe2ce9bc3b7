package tagger

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
)

// DefaultEntityTypes is the built-in entity type list used when no vocabulary
// asset supplies a tag index. Order is fixed: tag indices are derived from it.
var DefaultEntityTypes = []string{
	"PersonName",
	"Organization",
	"Hospital",
	"Disease",
	"Treatment",
	"RoomType",
	"Vehicle",
	"Garage",
	"VehiclePart",
	"RepairEstimate",
	"Airline",
	"Hotel",
	"TripDestination",
	"PropertyLoss",
	"LossAssessment",
	"IncidentDate",
	"Location",
	"ClaimAmount",
	"PolicyName",
	"ClaimType",
	"ClaimCause",
}

// TagVocabulary maps tag indices to BIO tag names and, optionally, words to
// model vocabulary indices. Built once at load time and read-only thereafter:
// for every entity type T there is exactly one B-T and one I-T tag, and O is
// always index 0 when the default layout is used.
type TagVocabulary struct {
	tags      []string       // index -> tag name ("O", "B-T", "I-T")
	tagByIdx  map[int]string // sparse override from an asset tag_index
	wordIndex map[string]int // optional word -> model vocabulary index
}

// vocabularyAsset is the JSON shape of an uploaded vocabulary file. Both
// fields are optional; absence of either falls back to the corresponding
// heuristic (built-in tag list, rolling-hash word encoding).
type vocabularyAsset struct {
	WordIndex map[string]int    `json:"word_index"`
	TagIndex  map[string]string `json:"tag_index"`
}

// NewDefaultVocabulary builds a TagVocabulary over the built-in entity types.
func NewDefaultVocabulary() *TagVocabulary {
	return newVocabulary(DefaultEntityTypes, nil, nil)
}

func newVocabulary(types []string, tagByIdx map[int]string, wordIndex map[string]int) *TagVocabulary {
	tags := make([]string, 0, 2*len(types)+1)
	tags = append(tags, "O")
	for _, t := range types {
		tags = append(tags, "B-"+t, "I-"+t)
	}
	return &TagVocabulary{tags: tags, tagByIdx: tagByIdx, wordIndex: wordIndex}
}

// LoadVocabularyFile reads a vocabulary asset from disk. A missing or
// malformed file is never fatal: the default vocabulary is returned and the
// pipeline continues in degraded mode.
func LoadVocabularyFile(path string) *TagVocabulary {
	if path == "" {
		return NewDefaultVocabulary()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("tagger.TagVocabulary: reading vocabulary asset %s: %v (using defaults)", path, err)
		return NewDefaultVocabulary()
	}
	return ParseVocabularyAsset(data)
}

// ParseVocabularyAsset parses a vocabulary asset. Parse failures degrade to
// the default vocabulary; a present tag_index overrides individual tag
// indices, a present word_index enables exact token lookup.
func ParseVocabularyAsset(data []byte) *TagVocabulary {
	var asset vocabularyAsset
	if err := json.Unmarshal(data, &asset); err != nil {
		log.Printf("tagger.TagVocabulary: malformed vocabulary asset: %v (using defaults)", err)
		return NewDefaultVocabulary()
	}

	var tagByIdx map[int]string
	if len(asset.TagIndex) > 0 {
		tagByIdx = make(map[int]string, len(asset.TagIndex))
		for k, name := range asset.TagIndex {
			idx, err := strconv.Atoi(k)
			if err != nil {
				log.Printf("tagger.TagVocabulary: non-integer tag index key %q ignored", k)
				continue
			}
			tagByIdx[idx] = name
		}
	}

	return newVocabulary(DefaultEntityTypes, tagByIdx, asset.WordIndex)
}

// TagName resolves a tag index to its BIO tag name. Unknown indices default
// to "O".
func (v *TagVocabulary) TagName(idx int) string {
	if v.tagByIdx != nil {
		if name, ok := v.tagByIdx[idx]; ok {
			return name
		}
	}
	if idx >= 0 && idx < len(v.tags) {
		return v.tags[idx]
	}
	return "O"
}

// TagCount returns the number of tags in the built-in layout.
func (v *TagVocabulary) TagCount() int {
	return len(v.tags)
}

// HasWordIndex reports whether a word->index mapping was supplied.
func (v *TagVocabulary) HasWordIndex() bool {
	return len(v.wordIndex) > 0
}

// WordIndex looks up a token's model vocabulary index: exact form first, then
// lowercase. The second return is false when the token is out of vocabulary.
func (v *TagVocabulary) WordIndex(word string) (int, bool) {
	if idx, ok := v.wordIndex[word]; ok {
		return idx, true
	}
	if idx, ok := v.wordIndex[strings.ToLower(word)]; ok {
		return idx, true
	}
	return 0, false
}

// EntityType returns the entity type of a BIO tag name, or "" for O and
// malformed tags.
func EntityType(tag string) string {
	if strings.HasPrefix(tag, "B-") || strings.HasPrefix(tag, "I-") {
		return tag[2:]
	}
	return ""
}
