package driven

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// Registry persists the file catalogue, keyed by (service, name).
// Backed by SQLite for durable storage; an in-memory implementation exists
// for tests and ephemeral runs.
type Registry interface {
	// UpsertEntry stores or updates an entry. On conflict on
	// (service, name) the merge semantics are: summary, technical
	// description, cloud URL and remote locator are overwritten by the
	// new value; embedding and content text are coalesced, so a nil/empty
	// new value never erases a previously stored one.
	UpsertEntry(ctx context.Context, entry *domain.CatalogEntry) error

	// FindByNameAndService looks up one entry by its natural key.
	// Returns domain.ErrNotFound when absent.
	FindByNameAndService(ctx context.Context, name, service string) (*domain.CatalogEntry, error)

	// ListEmbedded returns all entries carrying a non-empty embedding,
	// the candidate set for semantic search. Entries whose embedding is
	// the empty-vector failure sentinel are excluded.
	ListEmbedded(ctx context.Context) ([]domain.CatalogEntry, error)

	// ListRecent returns the most recently registered entries.
	ListRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, error)

	// SearchByName returns entries whose name contains the keyword,
	// case-insensitively. Used by the non-scored search fallback.
	SearchByName(ctx context.Context, keyword string) ([]domain.CatalogEntry, error)

	// DeleteEntry removes an entry by surrogate id.
	DeleteEntry(ctx context.Context, id int64) error

	// SaveFolder stores or updates a folder reference and returns its id.
	SaveFolder(ctx context.Context, folder *domain.FolderRef) (int64, error)

	// FolderByName finds a folder reference by (name, service).
	FolderByName(ctx context.Context, name, service string) (*domain.FolderRef, error)

	// LoadCategoryCache returns the persisted (category, service) ->
	// cloud folder id mapping.
	LoadCategoryCache(ctx context.Context) (domain.CategoryCache, error)

	// SaveCategoryFolder upserts one category folder mapping.
	SaveCategoryFolder(ctx context.Context, category, service, cloudFolderID string) error

	// Close releases the underlying storage.
	Close() error
}
