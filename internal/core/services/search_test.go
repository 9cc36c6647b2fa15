package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/storage/memory"
	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero vector yields 0, not NaN", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"mismatched lengths yield 0", []float32{1}, []float32{1, 0}, 0.0},
		{"empty yields 0", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSearchKeywordBoost(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	// Both entries share the query's exact embedding; only one contains the
	// query literally in its name.
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "contract_scan.pdf", Embedding: []float32{1, 0},
	}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "notes.txt", Embedding: []float32{1, 0},
	}))

	embedder := &mockEmbedder{vectors: map[string][]float32{"contract": {1, 0}}}
	search := NewSemanticSearch(reg, embedder)

	results, err := search.Search(ctx, "contract", domain.SearchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "contract_scan.pdf", results[0].Name)
	assert.InDelta(t, 1.0+domain.KeywordBoost, *results[0].Score, 1e-6,
		"boost is added after the cosine score")
	assert.InDelta(t, 1.0, *results[1].Score, 1e-6)
}

func TestSearchThresholdFiltersWeakMatches(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "relevant.pdf", Embedding: []float32{1, 0},
	}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "unrelated.pdf", Embedding: []float32{0, 1},
	}))

	embedder := &mockEmbedder{vectors: map[string][]float32{"query": {1, 0}}}
	search := NewSemanticSearch(reg, embedder)

	results, err := search.Search(ctx, "query", domain.SearchOptions{Limit: 10, MinScore: 0.5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "relevant.pdf", results[0].Name)
}

func TestSearchEmbeddingUnavailable(t *testing.T) {
	reg := memory.NewRegistry()
	embedder := &mockEmbedder{err: errors.New("provider down")}
	search := NewSemanticSearch(reg, embedder)

	_, err := search.Search(context.Background(), "anything", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSearchFallbackToNameMatch(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	// The only embedded entry is nearly orthogonal to the query, so the
	// best semantic score sits below the fallback threshold.
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "dropbox", Name: "taxes_2024.xlsx", Embedding: []float32{0, 1},
	}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "holiday_taxes.pdf",
	}))

	embedder := &mockEmbedder{vectors: map[string][]float32{"taxes": {1, 0.01}}}
	search := NewSemanticSearch(reg, embedder)

	results, err := search.Search(ctx, "taxes", domain.SearchOptions{Limit: 10, MinScore: 0.01})
	require.NoError(t, err)
	require.Len(t, results, 2, "fallback matches both names")
	for _, r := range results {
		assert.Nil(t, r.Score, "fallback results are explicitly non-scored")
	}
}

func TestSearchFallbackHonoursOffset(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	// Orthogonal embedding keeps every semantic score at zero, forcing
	// the name-match fallback for all three entries.
	names := []string{"report_a.pdf", "report_b.pdf", "report_c.pdf"}
	for _, n := range names {
		require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
			Service: "drive", Name: n, Embedding: []float32{0, 1},
		}))
	}

	embedder := &mockEmbedder{vectors: map[string][]float32{"report": {1, 0}}}
	search := NewSemanticSearch(reg, embedder)

	page2, err := search.Search(ctx, "report", domain.SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "report_b.pdf", page2[0].Name)
	assert.Nil(t, page2[0].Score)

	empty, err := search.Search(ctx, "report", domain.SearchOptions{Limit: 1, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchWithoutEmbedder(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "invoice.pdf",
	}))

	search := NewSemanticSearch(reg, nil)

	_, err := search.Search(ctx, "invoice", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	byName, err := search.SearchByName(ctx, "invoice", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)

	recent, err := search.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestSearchScenarioRentalContract(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service:   "drive",
		Name:      "contrato_alquiler.pdf",
		Summary:   "rental contract",
		CloudURL:  "https://drive.example/abc",
		Embedding: []float32{0.9, 0.1, 0.05},
	}))

	embedder := &mockEmbedder{vectors: map[string][]float32{
		"rental agreement": {0.88, 0.12, 0.04},
	}}
	search := NewSemanticSearch(reg, embedder)

	results, err := search.Search(ctx, "rental agreement", domain.SearchOptions{MinScore: 0.3})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "contrato_alquiler.pdf", results[0].Name)
	assert.Equal(t, "rental contract", results[0].Summary)
	assert.Greater(t, *results[0].Score, 0.3)
}

func TestSearchPagination(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	names := []string{"a.pdf", "b.pdf", "c.pdf"}
	for _, n := range names {
		require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
			Service: "drive", Name: n, Embedding: []float32{1, 0},
		}))
	}

	embedder := &mockEmbedder{vectors: map[string][]float32{"q": {1, 0}}}
	search := NewSemanticSearch(reg, embedder)

	page1, err := search.Search(ctx, "q", domain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := search.Search(ctx, "q", domain.SearchOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1, "last page shrinks to the remaining results")

	empty, err := search.Search(ctx, "q", domain.SearchOptions{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchEmptyQuery(t *testing.T) {
	search := NewSemanticSearch(memory.NewRegistry(), &mockEmbedder{fixed: []float32{1}})
	_, err := search.Search(context.Background(), "   ", domain.SearchOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{Service: "drive", Name: "old.pdf"}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{Service: "drive", Name: "new.pdf"}))

	search := NewSemanticSearch(reg, &mockEmbedder{fixed: []float32{1}})
	results, err := search.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new.pdf", results[0].Name)
}
