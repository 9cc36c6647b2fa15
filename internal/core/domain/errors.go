package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates a query-time embedding failure.
	// Semantic search cannot proceed for this single request.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDownloadFailed indicates a remote file could not be fetched.
	// Soft during batch runs: counted and skipped.
	ErrDownloadFailed = errors.New("download failed")

	// ErrExtractionFailed indicates content could not be read.
	// Soft: degrades to empty text, never fatal.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrRegistryWrite indicates a persistence failure for one record.
	// Soft per record: logged, the batch continues.
	ErrRegistryWrite = errors.New("registry write failed")

	// ErrUnsupportedType indicates an unknown backend or file kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotAFile indicates a listing entry turned out to be a directory
	// when treated as a file. Soft skip, not a counted error.
	ErrNotAFile = errors.New("not a file")
)

// IsSoftSkip reports whether an error is a directory-misidentification that
// should be skipped silently rather than counted.
func IsSoftSkip(err error) bool {
	return errors.Is(err, ErrNotAFile)
}
