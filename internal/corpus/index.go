package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"polisure/internal/domain"
	"polisure/internal/port"
)

// Index holds the chunked policy corpus and answers similarity queries
// against it. When an embedder is configured the search is cosine similarity
// over embeddings, with a TTL cache so chunk vectors are computed once per
// corpus load. Without an embedder it falls back to lexical word overlap.
type Index struct {
	mu     sync.RWMutex
	chunks []domain.PolicyChunk

	embedder port.Embedder
	cache    *gocache.Cache
	topK     int
}

// NewIndex creates an empty index. embedder may be nil, in which case search
// runs in lexical mode. cacheTTL <= 0 means chunk vectors never expire.
func NewIndex(embedder port.Embedder, topK int, cacheTTL time.Duration) *Index {
	if topK <= 0 {
		topK = 4
	}
	ttl := cacheTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Index{
		embedder: embedder,
		cache:    gocache.New(ttl, 10*time.Minute),
		topK:     topK,
	}
}

// Build replaces the index contents with the chunks of docs.
func (idx *Index) Build(docs []domain.PolicyDocument, chunkSize, chunkOverlap int) {
	var chunks []domain.PolicyChunk
	for _, doc := range docs {
		for i, text := range ChunkText(doc.Content, chunkSize, chunkOverlap) {
			chunks = append(chunks, domain.PolicyChunk{
				PolicyID:   doc.ID,
				PolicyName: doc.Name,
				Ordinal:    i,
				Text:       text,
			})
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = chunks
	log.Printf("corpus.Index: built %d chunks from %d documents", len(chunks), len(docs))
}

// Len returns the number of chunks currently indexed.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// PolicyNames returns the distinct policy names in the index, in first-seen
// order.
func (idx *Index) PolicyNames() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, c := range idx.chunks {
		if !seen[c.PolicyName] {
			seen[c.PolicyName] = true
			names = append(names, c.PolicyName)
		}
	}
	return names
}

// Search returns the k chunks most similar to query, best first. k <= 0 uses
// the index default. Returns domain.ErrCorpusEmpty when nothing is indexed.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.PolicyChunk, error) {
	if k <= 0 {
		k = idx.topK
	}

	idx.mu.RLock()
	chunks := idx.chunks
	idx.mu.RUnlock()

	if len(chunks) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	if idx.embedder != nil {
		results, err := idx.searchEmbedding(ctx, query, chunks, k)
		if err == nil {
			return results, nil
		}
		log.Printf("corpus.Index: embedding search failed, falling back to lexical: %v", err)
	}
	return idx.searchLexical(query, chunks, k), nil
}

func (idx *Index) searchEmbedding(ctx context.Context, query string, chunks []domain.PolicyChunk, k int) ([]domain.PolicyChunk, error) {
	vectors, err := idx.chunkVectors(ctx, chunks)
	if err != nil {
		return nil, err
	}

	qv, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("embedding query: expected 1 vector, got %d", len(qv))
	}

	scores := make([]float64, len(chunks))
	for i, v := range vectors {
		scores[i] = cosineSimilarity(qv[0], v)
	}
	return topChunks(chunks, scores, k), nil
}

// chunkVectors returns one embedding per chunk, reusing cached vectors and
// embedding only the misses in a single batch call.
func (idx *Index) chunkVectors(ctx context.Context, chunks []domain.PolicyChunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	var missTexts []string
	var missIdx []int

	for i, c := range chunks {
		key := chunkCacheKey(c.Text)
		if v, ok := idx.cache.Get(key); ok {
			vectors[i] = v.([]float32)
			continue
		}
		missTexts = append(missTexts, c.Text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) > 0 {
		embedded, err := idx.embedder.Embed(ctx, missTexts)
		if err != nil {
			return nil, fmt.Errorf("embedding %d chunks: %w", len(missTexts), err)
		}
		if len(embedded) != len(missTexts) {
			return nil, fmt.Errorf("embedding chunks: expected %d vectors, got %d", len(missTexts), len(embedded))
		}
		for j, i := range missIdx {
			vectors[i] = embedded[j]
			idx.cache.Set(chunkCacheKey(chunks[i].Text), embedded[j], gocache.DefaultExpiration)
		}
	}
	return vectors, nil
}

func (idx *Index) searchLexical(query string, chunks []domain.PolicyChunk, k int) []domain.PolicyChunk {
	queryWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = true
	}

	scores := make([]float64, len(chunks))
	for i, c := range chunks {
		hits := 0
		for _, w := range strings.Fields(strings.ToLower(c.Text)) {
			if queryWords[w] {
				hits++
			}
		}
		scores[i] = float64(hits)
	}
	return topChunks(chunks, scores, k)
}

func topChunks(chunks []domain.PolicyChunk, scores []float64, k int) []domain.PolicyChunk {
	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]domain.PolicyChunk, 0, k)
	for _, i := range order[:k] {
		results = append(results, chunks[i])
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func chunkCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
