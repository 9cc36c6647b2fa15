package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// MinContentChars is the content-bearing threshold: extracted text at or
// below this length gets a synthesized fallback description instead of
// summarization and embedding.
const MinContentChars = 50

// maxStoredChars bounds the extracted text persisted per entry.
const maxStoredChars = 15000

// skipNames are transient or placeholder listing entries that are filtered
// before processing.
var skipNames = map[string]struct{}{
	".":    {},
	"..":   {},
	"None": {},
}

// Reconciler discovers files present in remote stores but missing or
// incomplete in the registry and drives the download -> extract -> embed ->
// register pipeline for each gap. Failures are isolated per file.
type Reconciler struct {
	stores     []driven.CloudStore
	insight    driven.TextInsight
	embedder   *ChunkedEmbedder
	registry   driven.Registry
	scratchDir string
}

// NewReconciler creates a reconciliation scanner over the given backends.
// If scratchDir is empty, a directory under the system temp dir is used for
// download scratch space.
func NewReconciler(
	stores []driven.CloudStore,
	insight driven.TextInsight,
	embedder *ChunkedEmbedder,
	registry driven.Registry,
	scratchDir string,
) *Reconciler {
	if scratchDir == "" {
		scratchDir = filepath.Join(os.TempDir(), "nublado-scratch")
	}
	return &Reconciler{
		stores:     stores,
		insight:    insight,
		embedder:   embedder,
		registry:   registry,
		scratchDir: scratchDir,
	}
}

// Reconcile scans every backend and indexes what the registry is missing.
func (r *Reconciler) Reconcile(ctx context.Context, progress domain.ProgressFunc) (*domain.Report, error) {
	progress.Emit("Starting global cloud scan...")

	if err := os.MkdirAll(r.scratchDir, 0700); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	report := &domain.Report{}
	reachable := 0

	for _, store := range r.stores {
		service := store.Service()
		progress.Emit("Scanning files in %s...", service)

		files, err := r.listAllFiles(ctx, store)
		if err != nil {
			logger.Warn("Listing %s failed: %v", service, err)
			progress.Emit("Error %s: %v", service, err)
			continue
		}
		reachable++

		for _, file := range files {
			// Cancellation between files only: a file in flight always
			// finishes its pipeline and scratch cleanup.
			if err := ctx.Err(); err != nil {
				progress.Emit("%s", report.Summary())
				return report, err
			}
			r.processFile(ctx, store, file, report, progress)
		}
	}

	if reachable == 0 && len(r.stores) > 0 {
		return report, fmt.Errorf("reconcile: no backend reachable")
	}

	progress.Emit("%s", report.Summary())
	logger.Info("Reconciliation complete: %d new, %d errors", report.New, report.Errors)
	return report, nil
}

// listAllFiles walks a backend's folder tree breadth-first and returns all
// file objects. Folder traversal order carries no guarantee.
func (r *Reconciler) listAllFiles(ctx context.Context, store driven.CloudStore) ([]domain.RemoteObject, error) {
	var files []domain.RemoteObject
	queue := []string{""}

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		objects, err := store.List(ctx, folder)
		if err != nil {
			if folder == "" {
				return nil, err
			}
			logger.Warn("Listing folder %q on %s failed: %v", folder, store.Service(), err)
			continue
		}

		for _, obj := range objects {
			if obj.IsFolder {
				queue = append(queue, obj.Locator)
				continue
			}
			files = append(files, obj)
		}
	}

	return files, nil
}

// processFile runs the per-file pipeline. All failures terminate in the
// report, never in the caller.
func (r *Reconciler) processFile(
	ctx context.Context,
	store driven.CloudStore,
	file domain.RemoteObject,
	report *domain.Report,
	progress domain.ProgressFunc,
) {
	name := file.Name
	service := store.Service()

	if _, skip := skipNames[name]; skip || name == "" || domain.IsCategoryFolder(name) {
		return
	}

	existing, err := r.registry.FindByNameAndService(ctx, name, service)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Registry lookup for %s (%s) failed: %v", name, service, err)
	}
	if existing != nil && !existing.NeedsIndexing() {
		report.Record(domain.FileOutcome{Name: name, Service: service, Stage: domain.StageSkipped})
		return
	}

	progress.Emit("Processing: %s (%s)...", name, service)

	outcome := r.indexFile(ctx, store, file)
	report.Record(outcome)

	switch outcome.Stage {
	case domain.StageRegistered:
		progress.Emit("Registered: %s", name)
	case domain.StageSkipped:
		progress.Emit("Skipping folder entry: %s", name)
	case domain.StageFailed:
		progress.Emit("Error on %s: %v", name, outcome.Err)
	}
}

// indexFile downloads, extracts, embeds and registers one file.
func (r *Reconciler) indexFile(
	ctx context.Context, store driven.CloudStore, file domain.RemoteObject,
) (outcome domain.FileOutcome) {
	name := file.Name
	service := store.Service()
	extension := domain.ExtensionOf(name)
	outcome = domain.FileOutcome{Name: name, Service: service, Stage: domain.StageDownloading}

	// A unique prefix keeps same-named files from different backends from
	// clobbering each other in the shared scratch dir.
	localPath := filepath.Join(r.scratchDir, uuid.NewString()+"-"+filepath.Base(name))
	// Scratch copies are always removed, success or failure, to bound disk
	// usage during large scans.
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Scratch cleanup for %s failed: %v", localPath, err)
		}
	}()

	if err := store.Download(ctx, file.Locator, localPath); err != nil {
		if domain.IsSoftSkip(err) || isDirectoryError(err) {
			outcome.Stage = domain.StageSkipped
			return outcome
		}
		outcome.Stage = domain.StageFailed
		outcome.Err = fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
		return outcome
	}

	url, err := store.ShareLink(ctx, file.Locator)
	if err != nil {
		logger.Debug("Share link for %s unavailable: %v", name, err)
		url = "link_unavailable"
	}

	outcome.Stage = domain.StageExtracting
	text := strings.TrimSpace(r.insight.ExtractText(ctx, localPath))
	if len(text) > maxStoredChars {
		logger.Debug("Trimming stored text for %s (%d chars)", name, len(text))
		text = text[:maxStoredChars]
	}

	summary := ""
	description := domain.DocumentDescription(extension)
	var vector []float32

	if len(text) > MinContentChars {
		outcome.Stage = domain.StageEmbedding
		summary, vector = r.analyze(ctx, name, text)
	} else {
		// Non-text files still get a summary so they remain listable.
		summary = domain.FallbackSummary(extension)
		description = domain.BinaryDescription(extension)
		text = ""
	}

	entry := &domain.CatalogEntry{
		Service:              service,
		Name:                 name,
		RemoteLocator:        file.Locator,
		CloudURL:             url,
		Extension:            extension,
		ContentText:          text,
		Embedding:            vector,
		Summary:              summary,
		TechnicalDescription: description,
	}

	if err := r.registry.UpsertEntry(ctx, entry); err != nil {
		logger.Warn("Registry write for %s (%s) failed: %v", name, service, err)
		outcome.Stage = domain.StageFailed
		outcome.Err = fmt.Errorf("%w: %v", domain.ErrRegistryWrite, err)
		return outcome
	}

	outcome.Stage = domain.StageRegistered
	outcome.Err = nil
	return outcome
}

// analyze runs summarization and embedding concurrently; the two calls are
// independent. Either failing is soft: the entry persists with a fallback
// summary or a nil embedding and is retried on the next pass.
func (r *Reconciler) analyze(ctx context.Context, name, text string) (string, []float32) {
	var (
		summary string
		vector  []float32
		sumErr  error
		embErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, sumErr = r.insight.Summarize(gctx, text)
		return nil
	})
	g.Go(func() error {
		vector, embErr = r.embedder.Embed(gctx, text)
		return nil
	})
	_ = g.Wait()

	if sumErr != nil {
		logger.Warn("Summary for %s unavailable: %v", name, sumErr)
		summary = fmt.Sprintf("File %s registered (AI analysis unavailable).", name)
	}
	if embErr != nil {
		logger.Warn("Embedding for %s failed: %v", name, embErr)
		vector = nil
	}
	return summary, vector
}

// isDirectoryError matches backend errors for directory entries
// misidentified as files.
func isDirectoryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "is a directory") || strings.Contains(msg, "not_file")
}
