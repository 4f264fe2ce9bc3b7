package tagger

import "strings"

// EntitySpan is a contiguous run of tokens sharing one entity type.
type EntitySpan struct {
	Type  string
	Text  string
	Start int
}

// DecodeSpans stitches a per-position tag prediction into ordered entity
// spans. words and tagIndices are parallel; scanning stops at the first pad
// sentinel (padding is a contiguous suffix by construction). An I- tag only
// extends the open span when its type matches exactly; any other tag closes
// the open span before acting on itself, and an I- that cannot continue opens
// nothing. Spans are emitted in left-to-right order with their tokens joined
// by single spaces.
func DecodeSpans(words []string, tagIndices []int, vocab *TagVocabulary) []EntitySpan {
	var spans []EntitySpan

	openType := ""
	openText := ""
	openStart := 0

	emit := func() {
		if openType != "" {
			spans = append(spans, EntitySpan{Type: openType, Text: openText, Start: openStart})
			openType = ""
			openText = ""
		}
	}

	n := len(words)
	if len(tagIndices) < n {
		n = len(tagIndices)
	}

	for i := 0; i < n; i++ {
		if words[i] == PadToken {
			break
		}

		tag := vocab.TagName(tagIndices[i])
		switch {
		case strings.HasPrefix(tag, "B-"):
			emit()
			openType = tag[2:]
			openText = words[i]
			openStart = i
		case strings.HasPrefix(tag, "I-") && tag[2:] == openType && openType != "":
			openText += " " + words[i]
		default:
			// O, an unknown index, or a non-continuing I-.
			emit()
		}
	}
	emit()

	return spans
}
