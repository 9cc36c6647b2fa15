package driving

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// SearchService serves nearest-neighbor semantic search with hybrid
// keyword boosting over the catalogue.
type SearchService interface {
	// Search embeds the query, ranks all embedded entries by cosine
	// similarity plus keyword boost, thresholds, sorts and paginates.
	// Returns domain.ErrEmbeddingUnavailable when the query embedding
	// cannot be computed.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// SearchByName performs a plain substring match over file names.
	SearchByName(ctx context.Context, keyword string, limit int) ([]domain.SearchResult, error)

	// Recent lists the newest catalogue entries.
	Recent(ctx context.Context, limit int) ([]domain.SearchResult, error)
}
