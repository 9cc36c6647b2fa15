package services

import (
	"context"
	"fmt"

	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// DefaultMaxSafeChars is a conservative cap beneath the embedding model's
// context window (8192 tokens for text-embedding-3-small), leaving headroom
// for encoding variance.
const DefaultMaxSafeChars = 8000

// DefaultMaxChunks bounds the number of embedding calls per document to cap
// latency and cost. Truncating to the first chunks is a deliberate
// precision/cost trade-off.
const DefaultMaxChunks = 5

// ChunkedEmbedder guarantees a single vector per document regardless of
// input length: short text is embedded directly, long text is split into
// contiguous fixed-size chunks whose vectors are averaged element-wise.
type ChunkedEmbedder struct {
	embedder     driven.Embedder
	maxSafeChars int
	maxChunks    int
}

// EmbedderOption configures a ChunkedEmbedder.
type EmbedderOption func(*ChunkedEmbedder)

// WithMaxSafeChars sets the per-call character cap.
func WithMaxSafeChars(n int) EmbedderOption {
	return func(e *ChunkedEmbedder) {
		if n > 0 {
			e.maxSafeChars = n
		}
	}
}

// WithMaxChunks sets the maximum number of embedded chunks per document.
func WithMaxChunks(n int) EmbedderOption {
	return func(e *ChunkedEmbedder) {
		if n > 0 {
			e.maxChunks = n
		}
	}
}

// NewChunkedEmbedder wraps a raw embedding primitive with size bounding.
func NewChunkedEmbedder(embedder driven.Embedder, opts ...EmbedderOption) *ChunkedEmbedder {
	e := &ChunkedEmbedder{
		embedder:     embedder,
		maxSafeChars: DefaultMaxSafeChars,
		maxChunks:    DefaultMaxChunks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed produces one representative vector for the text.
// Returns nil for empty input; callers must not embed empty strings.
func (e *ChunkedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	if len(text) <= e.maxSafeChars {
		return e.embedder.Embed(ctx, text)
	}

	logger.Debug("Chunking long text for embedding (%d chars)", len(text))

	chunks := splitChunks(text, e.maxSafeChars)
	if len(chunks) > e.maxChunks {
		chunks = chunks[:e.maxChunks]
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		v, err := e.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk: %w", err)
		}
		vectors = append(vectors, v)
	}

	return meanVector(vectors)
}

// Dimensions returns the underlying provider's fixed vector size.
func (e *ChunkedEmbedder) Dimensions() int {
	return e.embedder.Dimensions()
}

// splitChunks divides text into contiguous chunks of at most size chars.
func splitChunks(text string, size int) []string {
	chunks := make([]string, 0, (len(text)/size)+1)
	for start := 0; start < len(text); start += size {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// meanVector computes the element-wise arithmetic mean across vectors.
// All vectors must share the provider's fixed dimensionality.
func meanVector(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimensions: %d != %d", len(v), dim)
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}

	mean := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		mean[i] = float32(s / n)
	}
	return mean, nil
}
