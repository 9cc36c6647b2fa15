// Package memory provides an in-memory Registry implementation.
// Used in tests and ephemeral runs; data does not survive the process.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Registry = (*Registry)(nil)

type entryKey struct {
	service string
	name    string
}

type categoryKey struct {
	category string
	service  string
}

// Registry is a thread-safe in-memory catalogue store.
type Registry struct {
	mu         sync.RWMutex
	nextID     int64
	entries    map[entryKey]*domain.CatalogEntry
	folders    map[entryKey]*domain.FolderRef
	categories map[categoryKey]string
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		nextID:     1,
		entries:    make(map[entryKey]*domain.CatalogEntry),
		folders:    make(map[entryKey]*domain.FolderRef),
		categories: make(map[categoryKey]string),
	}
}

// UpsertEntry stores or merges a catalogue entry keyed by (service, name).
// Summary, technical description, URL and locator overwrite; embedding and
// content text are coalesced so a nil new value never erases a stored one.
func (r *Registry) UpsertEntry(_ context.Context, entry *domain.CatalogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey{service: entry.Service, name: entry.Name}
	existing, ok := r.entries[key]
	if !ok {
		stored := *entry
		stored.ID = r.nextID
		r.nextID++
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now().UTC()
		}
		stored.Embedding = cloneVector(entry.Embedding)
		r.entries[key] = &stored
		entry.ID = stored.ID
		return nil
	}

	existing.RemoteLocator = entry.RemoteLocator
	existing.CloudURL = entry.CloudURL
	existing.Extension = entry.Extension
	existing.Summary = entry.Summary
	existing.TechnicalDescription = entry.TechnicalDescription
	if entry.FolderID != nil {
		existing.FolderID = entry.FolderID
	}
	if len(entry.Embedding) > 0 {
		existing.Embedding = cloneVector(entry.Embedding)
	}
	if entry.ContentText != "" {
		existing.ContentText = entry.ContentText
	}
	entry.ID = existing.ID
	return nil
}

// FindByNameAndService looks up one entry by its natural key.
func (r *Registry) FindByNameAndService(_ context.Context, name, service string) (*domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[entryKey{service: service, name: name}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *entry
	copied.Embedding = cloneVector(entry.Embedding)
	return &copied, nil
}

// ListEmbedded returns entries with a non-empty embedding.
func (r *Registry) ListEmbedded(_ context.Context) ([]domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.CatalogEntry
	for _, entry := range r.entries {
		if len(entry.Embedding) == 0 {
			continue
		}
		copied := *entry
		copied.Embedding = cloneVector(entry.Embedding)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListRecent returns the newest entries, most recent first.
func (r *Registry) ListRecent(_ context.Context, limit int) ([]domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchByName returns entries whose name contains the keyword.
func (r *Registry) SearchByName(_ context.Context, keyword string) ([]domain.CatalogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var out []domain.CatalogEntry
	for _, entry := range r.entries {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteEntry removes an entry by surrogate id.
func (r *Registry) DeleteEntry(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.entries {
		if entry.ID == id {
			delete(r.entries, key)
			return nil
		}
	}
	return domain.ErrNotFound
}

// SaveFolder stores or updates a folder reference.
func (r *Registry) SaveFolder(_ context.Context, folder *domain.FolderRef) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey{service: folder.Service, name: folder.Name}
	if existing, ok := r.folders[key]; ok {
		existing.CloudFolderID = folder.CloudFolderID
		existing.ParentID = folder.ParentID
		folder.ID = existing.ID
		return existing.ID, nil
	}

	stored := *folder
	stored.ID = r.nextID
	r.nextID++
	r.folders[key] = &stored
	folder.ID = stored.ID
	return stored.ID, nil
}

// FolderByName finds a folder reference by (name, service).
func (r *Registry) FolderByName(_ context.Context, name, service string) (*domain.FolderRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, ok := r.folders[entryKey{service: service, name: name}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *folder
	return &copied, nil
}

// LoadCategoryCache returns the persisted category folder mapping.
func (r *Registry) LoadCategoryCache(_ context.Context) (domain.CategoryCache, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cache := make(domain.CategoryCache)
	for key, folderID := range r.categories {
		cache.Put(key.service, key.category, folderID)
	}
	return cache, nil
}

// SaveCategoryFolder upserts one category folder mapping.
func (r *Registry) SaveCategoryFolder(_ context.Context, category, service, cloudFolderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[categoryKey{category: category, service: service}] = cloudFolderID
	return nil
}

// Close is a no-op for the in-memory registry.
func (r *Registry) Close() error {
	return nil
}

func cloneVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
