package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// Ensure SemanticSearch implements the interface.
var _ driving.SearchService = (*SemanticSearch)(nil)

// SemanticSearch ranks catalogue entries by cosine similarity to the query
// embedding, boosted by exact keyword matches.
type SemanticSearch struct {
	registry driven.Registry
	embedder driven.Embedder
}

// NewSemanticSearch creates the search engine. The embedder is typically a
// ChunkedEmbedder wrapping the TextInsight adapter; a nil embedder leaves
// only the name and recent lookups available.
func NewSemanticSearch(registry driven.Registry, embedder driven.Embedder) *SemanticSearch {
	return &SemanticSearch{
		registry: registry,
		embedder: embedder,
	}
}

// Search performs semantic search with hybrid keyword boosting.
func (s *SemanticSearch) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Semantic Search")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	minScore := opts.MinScore
	if minScore == 0 {
		minScore = domain.DefaultMinScore
	}
	fallbackBelow := opts.FallbackBelow
	if fallbackBelow == 0 {
		fallbackBelow = domain.DefaultFallbackBelow
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil || len(queryVector) == 0 {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVector))

	candidates, err := s.registry.ListEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	logger.Debug("Candidates with embeddings: %d", len(candidates))

	needle := strings.ToLower(query)
	results := make([]domain.SearchResult, 0, len(candidates))
	for i := range candidates {
		entry := &candidates[i]
		score := CosineSimilarity(queryVector, entry.Embedding)

		// Exact keyword match boost, applied after the cosine score.
		if strings.Contains(strings.ToLower(entry.ContentText), needle) ||
			strings.Contains(strings.ToLower(entry.Name), needle) {
			score += domain.KeywordBoost
		}

		if score < minScore {
			continue
		}

		final := score
		results = append(results, domain.SearchResult{
			ID:       entry.ID,
			Name:     entry.Name,
			CloudURL: entry.CloudURL,
			Service:  entry.Service,
			Summary:  entry.Summary,
			Score:    &final,
		})
	}

	// Descending by score; sort.SliceStable keeps insertion order on ties.
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score > *results[j].Score
	})

	if len(results) == 0 || *results[0].Score < fallbackBelow {
		logger.Info("Semantic results below %.2f, falling back to name match", fallbackBelow)
		return s.nameMatches(ctx, query, opts.Offset, limit)
	}

	results = paginate(results, opts.Offset, limit)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// SearchByName performs a plain substring match over file names.
// Results carry no score, flagging them as non-scored to the caller.
func (s *SemanticSearch) SearchByName(
	ctx context.Context, keyword string, limit int,
) ([]domain.SearchResult, error) {
	return s.nameMatches(ctx, keyword, 0, limit)
}

// nameMatches runs the registry substring lookup and pages the converted
// results, so the semantic fallback honours the request's offset too.
func (s *SemanticSearch) nameMatches(
	ctx context.Context, keyword string, offset, limit int,
) ([]domain.SearchResult, error) {
	entries, err := s.registry.SearchByName(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	return paginate(entriesToResults(entries), offset, limit), nil
}

// Recent lists the newest catalogue entries, unranked.
func (s *SemanticSearch) Recent(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	entries, err := s.registry.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return paginate(entriesToResults(entries), 0, limit), nil
}

// CosineSimilarity computes dot(a, b) / (||a|| * ||b||).
// A zero-norm or mismatched vector yields 0, never NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// paginate slices results for one page. The page shrinks to the result-set
// size when fewer results remain, keeping single-page responses concise.
func paginate(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func entriesToResults(entries []domain.CatalogEntry) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(entries))
	for i := range entries {
		results = append(results, domain.SearchResult{
			ID:       entries[i].ID,
			Name:     entries[i].Name,
			CloudURL: entries[i].CloudURL,
			Service:  entries[i].Service,
			Summary:  entries[i].Summary,
		})
	}
	return results
}
