package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driving"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// Ensure Organizer implements the interface.
var _ driving.Organizer = (*CategoryOrganizer)(nil)

// CategoryOrganizer moves already-uploaded files into per-category folders
// on each backend. Folder identities are cached in the registry so repeated
// runs avoid folder-creation and listing round-trips; a file already in its
// category folder is skipped, making the second pass a no-op.
type CategoryOrganizer struct {
	stores   []driven.CloudStore
	registry driven.Registry
}

// NewCategoryOrganizer creates the reorganizer over the given backends.
func NewCategoryOrganizer(stores []driven.CloudStore, registry driven.Registry) *CategoryOrganizer {
	return &CategoryOrganizer{
		stores:   stores,
		registry: registry,
	}
}

// Organize reorganizes every backend, streaming progress per decision.
func (o *CategoryOrganizer) Organize(ctx context.Context, progress domain.ProgressFunc) (*domain.Report, error) {
	progress.Emit("Starting file categorization...")
	progress.Emit("Loading category folder cache...")

	cache, err := o.registry.LoadCategoryCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category cache: %w", err)
	}

	report := &domain.Report{}
	for _, store := range o.stores {
		if err := ctx.Err(); err != nil {
			progress.Emit("%s", report.MoveSummary())
			return report, err
		}
		o.organizeStore(ctx, store, cache, report, progress)
	}

	progress.Emit("Categorization finished.")
	progress.Emit("%s", report.MoveSummary())
	return report, nil
}

// organizeStore walks one backend and sorts its files. Listing failure for
// the whole backend is recorded once; per-file failures are isolated.
func (o *CategoryOrganizer) organizeStore(
	ctx context.Context,
	store driven.CloudStore,
	cache domain.CategoryCache,
	report *domain.Report,
	progress domain.ProgressFunc,
) {
	service := store.Service()
	progress.Emit("[%s] exploring folder structure...", service)

	files, err := o.listOutsideCategories(ctx, store)
	if err != nil {
		logger.Warn("Listing %s failed: %v", service, err)
		progress.Emit("[%s] error: %v", service, err)
		report.Record(domain.FileOutcome{Service: service, Stage: domain.StageFailed, Err: err})
		return
	}

	moved := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return
		}

		category := domain.Categorize(file.Name)
		progress.Emit("[%s] %s -> %s", service, file.Name, category)

		if category == domain.CategoryOther {
			// Unknown types are never auto-moved.
			progress.Emit("[%s]    (Other: not moved)", service)
			continue
		}

		if o.alreadySorted(file, category, cache, service) {
			progress.Emit("[%s]    already in the right folder", service)
			report.Record(domain.FileOutcome{Name: file.Name, Service: service, Stage: domain.StageSkipped})
			continue
		}

		folderID, err := o.categoryFolder(ctx, store, cache, category)
		if err != nil {
			progress.Emit("[%s]    could not prepare folder %s: %v", service, category, err)
			report.Record(domain.FileOutcome{Name: file.Name, Service: service, Stage: domain.StageFailed, Err: err})
			continue
		}

		progress.Emit("[%s]    moving to %s", service, category)
		if _, err := store.Move(ctx, file.Locator, folderID); err != nil {
			progress.Emit("[%s]    move failed: %v", service, err)
			report.Record(domain.FileOutcome{Name: file.Name, Service: service, Stage: domain.StageFailed, Err: err})
			continue
		}

		moved++
		report.Record(domain.FileOutcome{Name: file.Name, Service: service, Stage: domain.StageMoved})
	}

	progress.Emit("[%s] done. %d files moved.", service, moved)
}

// listOutsideCategories enumerates all files, recursing into every folder
// except the category folders themselves, to avoid infinite nesting of
// already-sorted files.
func (o *CategoryOrganizer) listOutsideCategories(
	ctx context.Context, store driven.CloudStore,
) ([]domain.RemoteObject, error) {
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
				if !domain.IsCategoryFolder(obj.Name) {
					queue = append(queue, obj.Locator)
				}
				continue
			}
			files = append(files, obj)
		}
	}

	return files, nil
}

// alreadySorted reports whether the file is already inside its category
// folder. Path-addressed backends compare the containing path segment;
// id-addressed backends check the cached folder id against Parents.
func (o *CategoryOrganizer) alreadySorted(
	file domain.RemoteObject, category domain.Category, cache domain.CategoryCache, service string,
) bool {
	if len(file.Parents) > 0 {
		folderID, ok := cache.Get(service, category.String())
		if !ok {
			return false
		}
		for _, parent := range file.Parents {
			if parent == folderID {
				return true
			}
		}
		return false
	}

	location := file.Path
	if location == "" {
		location = file.Locator
	}
	parent := path.Base(path.Dir(location))
	return strings.EqualFold(parent, category.String())
}

// categoryFolder resolves the destination folder for a category, creating
// it on first use and persisting its identity through the registry.
func (o *CategoryOrganizer) categoryFolder(
	ctx context.Context, store driven.CloudStore, cache domain.CategoryCache, category domain.Category,
) (string, error) {
	service := store.Service()
	if id, ok := cache.Get(service, category.String()); ok {
		return id, nil
	}

	id, err := store.CreateFolder(ctx, category.String(), "")
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", category, err)
	}

	cache.Put(service, category.String(), id)
	if err := o.registry.SaveCategoryFolder(ctx, category.String(), service, id); err != nil {
		// Cache persists best-effort; the in-memory copy still avoids
		// repeat creation within this run.
		logger.Warn("Persisting category folder %s (%s) failed: %v", category, service, err)
	}
	return id, nil
}
