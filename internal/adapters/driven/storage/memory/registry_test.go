package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

func TestUpsertEntryCreatesAndMerges(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	first := &domain.CatalogEntry{
		Service:   "dropbox",
		Name:      "invoice.pdf",
		Embedding: []float32{0.1, 0.2},
		Summary:   "march invoice",
		ContentText: "total due 42",
	}
	require.NoError(t, reg.UpsertEntry(ctx, first))
	assert.NotZero(t, first.ID)

	// Second registration with nil embedding must not erase the stored one.
	second := &domain.CatalogEntry{
		Service: "dropbox",
		Name:    "invoice.pdf",
		Summary: "updated summary",
	}
	require.NoError(t, reg.UpsertEntry(ctx, second))
	assert.Equal(t, first.ID, second.ID, "same natural key, no duplicate")

	got, err := reg.FindByNameAndService(ctx, "invoice.pdf", "dropbox")
	require.NoError(t, err)
	assert.Equal(t, "updated summary", got.Summary, "summary overwrites")
	assert.Equal(t, []float32{0.1, 0.2}, got.Embedding, "embedding coalesces")
	assert.Equal(t, "total due 42", got.ContentText, "content coalesces")

	// A non-nil new embedding replaces the old one.
	third := &domain.CatalogEntry{
		Service:   "dropbox",
		Name:      "invoice.pdf",
		Summary:   "updated summary",
		Embedding: []float32{0.9, 0.8},
	}
	require.NoError(t, reg.UpsertEntry(ctx, third))
	got, err = reg.FindByNameAndService(ctx, "invoice.pdf", "dropbox")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9, 0.8}, got.Embedding)
}

func TestFindByNameAndServiceNotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.FindByNameAndService(context.Background(), "nope.txt", "drive")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEmbeddedExcludesUnembedded(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "a.pdf", Embedding: []float32{1, 0},
	}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "b.jpg",
	}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{
		Service: "drive", Name: "c.bin", Embedding: []float32{},
	}))

	embedded, err := reg.ListEmbedded(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.Equal(t, "a.pdf", embedded[0].Name)
}

func TestSearchByName(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{Service: "drive", Name: "contrato_alquiler.pdf"}))
	require.NoError(t, reg.UpsertEntry(ctx, &domain.CatalogEntry{Service: "dropbox", Name: "photo.jpg"}))

	hits, err := reg.SearchByName(ctx, "CONTRATO")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "contrato_alquiler.pdf", hits[0].Name)
}

func TestCategoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	require.NoError(t, reg.SaveCategoryFolder(ctx, "Documents", "drive", "folder-1"))
	// Upsert semantics: at most one entry per (category, service).
	require.NoError(t, reg.SaveCategoryFolder(ctx, "Documents", "drive", "folder-2"))

	cache, err := reg.LoadCategoryCache(ctx)
	require.NoError(t, err)
	id, ok := cache.Get("drive", "Documents")
	assert.True(t, ok)
	assert.Equal(t, "folder-2", id)
}

func TestSaveFolderUpserts(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	f := &domain.FolderRef{Name: "Documents", Service: "drive", CloudFolderID: "x"}
	id1, err := reg.SaveFolder(ctx, f)
	require.NoError(t, err)

	f2 := &domain.FolderRef{Name: "Documents", Service: "drive", CloudFolderID: "y"}
	id2, err := reg.SaveFolder(ctx, f2)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, err := reg.FolderByName(ctx, "Documents", "drive")
	require.NoError(t, err)
	assert.Equal(t, "y", got.CloudFolderID)
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	e := &domain.CatalogEntry{Service: "drive", Name: "a.pdf"}
	require.NoError(t, reg.UpsertEntry(ctx, e))
	require.NoError(t, reg.DeleteEntry(ctx, e.ID))

	_, err := reg.FindByNameAndService(ctx, "a.pdf", "drive")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, reg.DeleteEntry(ctx, e.ID), domain.ErrNotFound)
}
