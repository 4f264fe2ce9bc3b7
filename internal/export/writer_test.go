package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"polisure/internal/domain"
	"polisure/internal/export"
)

func testClaims(t *testing.T) []domain.Claim {
	t.Helper()

	ext, err := json.Marshal(domain.ClaimExtraction{
		IncidentType:      "Medical/Health",
		IncidentDate:      "12-03-2025",
		Location:          "Chennai",
		InvolvedParties:   []string{"City Hospital", "Dr. Rao"},
		DamageDescription: "hospitalized for dengue",
		EstimatedCost:     "45000",
		KeyTopics:         []string{"Hospital: City Hospital"},
	})
	require.NoError(t, err)

	ver, err := json.Marshal(domain.VerificationResult{
		Eligible:      true,
		MatchedPolicy: "health_family",
		Reasoning:     "Hospitalization is covered.",
		Confidence:    0.9,
	})
	require.NoError(t, err)

	return []domain.Claim{
		{
			ID:            uuid.New(),
			Status:        domain.ClaimStatusVerified,
			ExtractorUsed: "claude-sonnet-4-20250514",
			Extraction:    ext,
			Verification:  ver,
			CreatedAt:     time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Status:      domain.ClaimStatusDegraded,
			TriageError: "inference server unreachable",
			CreatedAt:   time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	claims := testClaims(t)
	require.NoError(t, export.WriteCSV(&buf, claims))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, export.BOM))

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, export.BOM)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Claim ID", rows[0][0])

	verified := rows[1]
	assert.Equal(t, claims[0].ID.String(), verified[0])
	assert.Equal(t, "Medical/Health", verified[3])
	assert.Equal(t, "City Hospital; Dr. Rao", verified[6])
	assert.Equal(t, "true", verified[10])
	assert.Equal(t, "0.90", verified[13])

	degraded := rows[2]
	assert.Equal(t, "degraded", degraded[1])
	// Extraction columns stay empty without stored JSON.
	assert.Empty(t, degraded[3])
	assert.Equal(t, "inference server unreachable", degraded[15])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	claims := testClaims(t)
	require.NoError(t, export.WriteXLSX(&buf, claims))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Claim ID", rows[0][0])
	assert.Equal(t, "Medical/Health", rows[1][3])
	assert.Equal(t, "health_family", rows[1][11])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))

	content := strings.TrimPrefix(buf.String(), string(export.BOM))
	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 1)
}
