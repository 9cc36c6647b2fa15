package domain

import (
	"fmt"
	"strings"
	"time"
)

// CatalogEntry represents one indexed remote file.
// The natural key is (Service, Name); ID is a storage surrogate.
type CatalogEntry struct {
	// ID is the surrogate identifier assigned by the registry.
	ID int64

	// Service names the backend the file lives in ("dropbox", "drive").
	Service string

	// Name is the file name, unique per service.
	Name string

	// RemoteLocator is the opaque backend path or file id.
	RemoteLocator string

	// CloudURL is a shareable link to the file.
	CloudURL string

	// Extension is the lowercase file extension without the dot.
	Extension string

	// ContentText is the extracted text content. Empty when extraction
	// produced nothing useful.
	ContentText string

	// Embedding is the semantic vector for the content. Nil when the file
	// has not been embedded (or embedding failed and is pending retry).
	Embedding []float32

	// Summary is a short human-readable description shown in results.
	Summary string

	// TechnicalDescription classifies the file when no text is available.
	TechnicalDescription string

	// FolderID references the FolderRef the file was sorted into, if any.
	FolderID *int64

	// CreatedAt is when the entry was first registered.
	CreatedAt time.Time
}

// NeedsIndexing reports whether the entry is missing AI-derived fields.
// This is the reconciliation entry condition: a file is reprocessed until
// it has both an embedding and a summary, which also makes retries of
// previously failed files naturally idempotent.
func (e *CatalogEntry) NeedsIndexing() bool {
	return len(e.Embedding) == 0 || e.Summary == ""
}

// Extension extracts the lowercase extension from a file name, without the
// leading dot. Returns "unknown" for names with no extension.
func ExtensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return "unknown"
	}
	return strings.ToLower(name[idx+1:])
}

// FallbackSummary synthesizes a summary for files with no extractable text,
// so every catalogued file remains listable in search results.
func FallbackSummary(extension string) string {
	return fmt.Sprintf("File of type .%s indexed by name. No extractable text content.", extension)
}

// BinaryDescription is the technical description for non-text files.
func BinaryDescription(extension string) string {
	return "Binary/container " + strings.ToUpper(extension)
}

// DocumentDescription is the default technical description for text-bearing
// documents.
func DocumentDescription(extension string) string {
	return "Document " + strings.ToUpper(extension)
}
