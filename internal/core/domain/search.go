package domain

// KeywordBoost is added to an entry's cosine score when the raw query
// appears literally (case-insensitive) in its name or extracted text.
// It rewards exact textual matches over purely semantic ones and is applied
// after the cosine computation, never instead of it.
const KeywordBoost = 0.2

// Default search thresholds. The minimum score is deployment-tuned; the
// original system oscillated between 0.25 and 0.60, so both are exposed
// through configuration rather than hard-coded.
const (
	DefaultMinScore      = 0.30
	DefaultFallbackBelow = 0.25
	DefaultSearchLimit   = 5
)

// SearchOptions configures a semantic search request.
type SearchOptions struct {
	// Limit is the maximum number of results per page.
	Limit int

	// Offset skips results for pagination.
	Offset int

	// MinScore filters out results below this final score.
	// Zero means DefaultMinScore.
	MinScore float64

	// FallbackBelow triggers the plain name-substring fallback when the
	// best semantic score falls below it. Zero means DefaultFallbackBelow.
	FallbackBelow float64
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ID      int64
	Name    string
	CloudURL string
	Service string
	Summary string

	// Score is the final ranking score (cosine + keyword boost).
	// Nil for non-scored fallback results from the name substring match.
	Score *float64
}

// Scored reports whether the result carries a semantic score.
func (r SearchResult) Scored() bool {
	return r.Score != nil
}
