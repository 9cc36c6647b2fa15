package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/storage/memory"
	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

func TestOrganizeMovesByCategory(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	store := newMockCloudStore("dropbox")
	store.addFile("", "report.pdf", "")
	store.addFile("", "song.mp3", "")
	store.addFile("", "mystery.xyz", "")

	org := NewCategoryOrganizer(cloudStores(store), reg)

	var messages []string
	report, err := org.Organize(ctx, func(msg string) { messages = append(messages, msg) })
	require.NoError(t, err)

	assert.Equal(t, 2, report.Moved)
	assert.Len(t, store.moves, 2)
	assert.Contains(t, store.folders, "Documents")
	assert.Contains(t, store.folders, "Audio")
	assert.NotContains(t, store.folders, "Other", "unmatched files are never auto-moved")
	assert.NotEmpty(t, messages)

	// Folder identities were persisted for the next run.
	cache, err := reg.LoadCategoryCache(ctx)
	require.NoError(t, err)
	_, ok := cache.Get("dropbox", "Documents")
	assert.True(t, ok)
}

func TestOrganizeSecondPassIsNoOp(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	store := newMockCloudStore("dropbox")
	store.addFile("", "report.pdf", "")

	org := NewCategoryOrganizer(cloudStores(store), reg)

	first, err := org.Organize(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Moved)

	second, err := org.Organize(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Moved, "running twice does no work the second time")
}

func TestOrganizeUsesFolderCache(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	store := newMockCloudStore("dropbox")
	store.addFile("", "a.pdf", "")
	store.addFile("", "b.docx", "")

	org := NewCategoryOrganizer(cloudStores(store), reg)
	_, err := org.Organize(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Documents"}, store.folders,
		"one folder-creation round-trip for two files of the same category")

	// A fresh run against a pre-populated cache creates nothing.
	store2 := newMockCloudStore("dropbox")
	store2.addFile("", "c.pdf", "")
	org2 := NewCategoryOrganizer(cloudStores(store2), reg)
	_, err = org2.Organize(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, store2.folders, "persisted cache avoids folder recreation across runs")
}

func TestOrganizeSkipsCategoryFolderTraversal(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	store := newMockCloudStore("dropbox")
	store.addFolder("Documents")
	store.addFolder("Projects")
	store.addFile("Documents", "sorted.pdf", "")
	store.addFile("Projects", "draft.pdf", "")

	org := NewCategoryOrganizer(cloudStores(store), reg)
	report, err := org.Organize(ctx, nil)
	require.NoError(t, err)

	// Only the file outside the category tree is considered; the one
	// already under Documents is never even listed.
	assert.Equal(t, 1, report.Moved)
	require.Len(t, store.moves, 1)
	assert.Contains(t, store.moves[0], "draft.pdf")
}

func TestOrganizeParentsModeAlreadySorted(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()
	require.NoError(t, reg.SaveCategoryFolder(ctx, "Documents", "drive", "fid-documents"))

	store := newMockCloudStore("drive")
	store.parentsMode = true
	// A file listed outside the category tree whose parents already include
	// the cached Documents folder id.
	store.objects[""] = append(store.objects[""], domain.RemoteObject{
		Locator: "id-filed.pdf",
		Name:    "filed.pdf",
		Parents: []string{"fid-documents"},
	})

	org := NewCategoryOrganizer(cloudStores(store), reg)
	report, err := org.Organize(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Moved)
	assert.Empty(t, store.moves)
}

func TestOrganizeParentsModeMoves(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewRegistry()

	store := newMockCloudStore("drive")
	store.parentsMode = true
	store.addFile("", "slides.pptx", "")

	org := NewCategoryOrganizer(cloudStores(store), reg)
	report, err := org.Organize(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Moved)
	require.Len(t, store.moves, 1)
	assert.Contains(t, store.moves[0], "id-slides.pptx -> fid-documents")
}

func TestOrganizeListFailureIsRecorded(t *testing.T) {
	ctx := context.Background()
	store := newMockCloudStore("dropbox")
	store.listErr = assert.AnError

	org := NewCategoryOrganizer(cloudStores(store), memory.NewRegistry())
	report, err := org.Organize(ctx, nil)
	require.NoError(t, err, "a backend listing failure does not abort the batch")
	assert.Equal(t, 1, report.Errors)
}
