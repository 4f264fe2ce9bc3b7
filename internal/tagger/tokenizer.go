package tagger

import (
	"regexp"
	"strings"
)

// Reserved encoder values.
const (
	PadToken = "[PAD]"
	PadIndex = 0
	OOVIndex = 1

	// hashRange bounds the pseudo-index fallback to [1, hashRange].
	hashRange = 1000
)

// Word characters and apostrophes group together; listed punctuation marks
// are their own tokens.
var tokenPattern = regexp.MustCompile(`[\w']+|[.,!?;]`)

// TokenSequence is a fixed-length encoding of a claim text: parallel word and
// index slices, right-padded with (PadToken, PadIndex).
type TokenSequence struct {
	Words   []string
	Indices []int
}

// Tokenize splits text on word/punctuation boundaries, falling back to
// whitespace splitting if the pattern matches nothing.
func Tokenize(text string) []string {
	tokens := tokenPattern.FindAllString(text, -1)
	if tokens == nil {
		return strings.Fields(text)
	}
	return tokens
}

// Encode produces exactly length (word, index) pairs for text. Tokens beyond
// length are truncated. With a word index present, lookup is exact form then
// lowercase, OOVIndex otherwise; with no word index at all, a deterministic
// rolling hash in [1, 1000] stands in. The hash is not a semantic embedding —
// accuracy on hash-encoded input is degraded by construction.
// Pure function of (text, vocab, length).
func Encode(text string, length int, vocab *TagVocabulary) TokenSequence {
	tokens := Tokenize(text)
	if len(tokens) > length {
		tokens = tokens[:length]
	}

	seq := TokenSequence{
		Words:   make([]string, 0, length),
		Indices: make([]int, 0, length),
	}
	for _, tok := range tokens {
		seq.Words = append(seq.Words, tok)
		seq.Indices = append(seq.Indices, encodeToken(tok, vocab))
	}
	for len(seq.Words) < length {
		seq.Words = append(seq.Words, PadToken)
		seq.Indices = append(seq.Indices, PadIndex)
	}
	return seq
}

func encodeToken(tok string, vocab *TagVocabulary) int {
	if vocab != nil && vocab.HasWordIndex() {
		if idx, ok := vocab.WordIndex(tok); ok {
			return idx
		}
		return OOVIndex
	}
	return hashIndex(tok)
}

// hashIndex derives a deterministic pseudo-index in [1, hashRange] from the
// token's characters.
func hashIndex(tok string) int {
	h := 0
	for _, r := range tok {
		h = (h*31 + int(r)) % hashRange
	}
	return h + 1
}
