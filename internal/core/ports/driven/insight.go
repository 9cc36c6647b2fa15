package driven

import "context"

// TextInsight wraps content extraction and embedding generation.
// Failures are isolated per file: ExtractText degrades to an empty string
// rather than propagating provider errors, so one unreadable file never
// blocks a batch.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, gpt-4o-mini vision, whisper-1)
//   - compatible inference servers behind the same HTTP surface
type TextInsight interface {
	// ExtractText reads the file and returns its text content.
	// Dispatches by file kind: images go through vision description,
	// audio/video through transcription, documents through structured
	// extraction, plain text is read through. NUL and control bytes are
	// stripped from the result. Returns "" when nothing can be read.
	ExtractText(ctx context.Context, localPath string) string

	// Embed generates a vector embedding for the given text.
	// Empty input returns a nil vector without calling the provider.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Summarize produces a short description of the text for display in
	// search results.
	Summarize(ctx context.Context, text string) (string, error)

	// Transcribe converts an audio file to text.
	Transcribe(ctx context.Context, localPath string) (string, error)

	// Dimensions returns the fixed embedding vector size (e.g. 1536).
	Dimensions() int

	// Ping validates the provider is reachable with a lightweight call.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Embedder is the minimal embedding surface consumed by the search engine
// and the chunked embedder. TextInsight satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
