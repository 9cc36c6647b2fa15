package driven

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// CloudStore abstracts one remote object-storage backend.
// Implementations absorb backend heterogeneity: Dropbox addresses folders
// by hierarchical path strings, Google Drive by opaque ids with a parents
// membership list. Callers never branch on backend identity.
//
// Listing calls paginate internally using the backend's native
// continuation-token mechanism and return complete result sets.
type CloudStore interface {
	// Service returns the backend name used as the registry service key.
	Service() string

	// List enumerates the objects directly inside a folder. The argument
	// is a locator: a path for path-addressed backends, a folder id for
	// id-addressed backends. The empty string always means the root.
	List(ctx context.Context, folder string) ([]domain.RemoteObject, error)

	// Upload stores a local file under name inside the destination folder
	// and returns the new object's shareable URL.
	Upload(ctx context.Context, localPath, name, destFolder string) (string, error)

	// Download fetches the object at locator into localPath.
	// Returns domain.ErrNotAFile when the locator addresses a folder.
	Download(ctx context.Context, locator, localPath string) error

	// Delete removes the object at locator.
	Delete(ctx context.Context, locator string) error

	// Move relocates an object into the destination folder and returns
	// the new locator.
	Move(ctx context.Context, locator, destFolder string) (string, error)

	// CreateFolder ensures a folder with the given name exists under
	// parent ("" for root) and returns its locator. Creating an existing
	// folder returns the existing locator.
	CreateFolder(ctx context.Context, name, parent string) (string, error)

	// ShareLink returns a shareable URL for the object at locator.
	ShareLink(ctx context.Context, locator string) (string, error)

	// Close releases resources.
	Close() error
}
