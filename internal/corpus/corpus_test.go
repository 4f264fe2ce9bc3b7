package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polisure/internal/corpus"
	"polisure/internal/domain"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunks := corpus.ChunkText("a short policy clause", 200, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short policy clause", chunks[0])
}

func TestChunkText_OverlapBetweenChunks(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	chunks := corpus.ChunkText(strings.Join(words, " "), 4, 2)

	require.True(t, len(chunks) >= 2)
	assert.Equal(t, "a b c d", chunks[0])
	assert.Equal(t, "c d e f", chunks[1])
	// All words covered.
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "j"))
}

func TestChunkText_EmptyInput(t *testing.T) {
	assert.Nil(t, corpus.ChunkText("   ", 100, 10))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "motor_policy.txt"), []byte("Collision damage is covered up to the insured declared value."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("Travel delay requires airline confirmation."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.pdf"), []byte("binary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n"), 0o644))

	docs, err := corpus.LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	names := []string{docs[0].Name, docs[1].Name}
	assert.Contains(t, names, "motor_policy")
	assert.Contains(t, names, "notes")
}

func TestLoadDirectory_Missing(t *testing.T) {
	_, err := corpus.LoadDirectory("/nonexistent/corpus")
	assert.Error(t, err)
}

func testDocs() []domain.PolicyDocument {
	return []domain.PolicyDocument{
		{
			ID:      uuid.New(),
			Name:    "motor_comprehensive",
			Content: "Collision damage to the insured vehicle is covered. Garage repair estimates must be submitted within 30 days.",
		},
		{
			ID:      uuid.New(),
			Name:    "health_family",
			Content: "Hospitalization expenses including room rent and treatment for dengue and other diseases are covered.",
		},
	}
}

func TestIndex_SearchLexical(t *testing.T) {
	idx := corpus.NewIndex(nil, 2, 0)
	idx.Build(testDocs(), 50, 5)
	require.Equal(t, 2, idx.Len())

	results, err := idx.Search(context.Background(), "hospital room rent for dengue treatment", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "health_family", results[0].PolicyName)
}

func TestIndex_SearchEmpty(t *testing.T) {
	idx := corpus.NewIndex(nil, 2, 0)
	_, err := idx.Search(context.Background(), "anything", 1)
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

type stubEmbedder struct {
	calls int
}

// Embed returns a fixed 2-dim vector per text: axis 0 for motor words, axis 1
// for health words.
func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		var v [2]float32
		if strings.Contains(lower, "vehicle") || strings.Contains(lower, "collision") {
			v[0] = 1
		}
		if strings.Contains(lower, "hospital") || strings.Contains(lower, "dengue") {
			v[1] = 1
		}
		out[i] = v[:]
	}
	return out, nil
}

func TestIndex_SearchEmbedding(t *testing.T) {
	emb := &stubEmbedder{}
	idx := corpus.NewIndex(emb, 2, 0)
	idx.Build(testDocs(), 50, 5)

	results, err := idx.Search(context.Background(), "collision with another vehicle", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "motor_comprehensive", results[0].PolicyName)

	// Chunk vectors are cached: a second search only embeds the query.
	callsAfterFirst := emb.calls
	_, err = idx.Search(context.Background(), "dengue hospitalization", 1)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst+1, emb.calls)
}

func TestIndex_PolicyNames(t *testing.T) {
	idx := corpus.NewIndex(nil, 2, 0)
	idx.Build(testDocs(), 50, 5)
	assert.Equal(t, []string{"motor_comprehensive", "health_family"}, idx.PolicyNames())
}
