package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"polisure/internal/domain"
)

// DecodeExtractionJSON parses a model reply into a ClaimExtraction, repairing
// the common failure modes first: markdown code fences and prose around the
// JSON object.
func DecodeExtractionJSON(text string) (*domain.ClaimExtraction, error) {
	cleaned := RepairJSON(text)

	var ext domain.ClaimExtraction
	if err := json.Unmarshal([]byte(cleaned), &ext); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	return &ext, nil
}

// RepairJSON strips code fences and any text outside the outermost JSON
// object. It does not attempt structural repair beyond that.
func RepairJSON(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
