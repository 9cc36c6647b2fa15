// Package drive implements the CloudStore port over the Google Drive
// v3 API. Drive is id-addressed: locators are opaque file ids, folder
// membership lives in a parents list, and the empty string maps to the
// "root" alias.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/nublado-labs/nublado-cli/internal/connectors/google"
	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// Store implements driven.CloudStore for Google Drive.
type Store struct {
	svc     *drive.Service
	limiter *google.RateLimiter
	cfg     Config
}

var _ driven.CloudStore = (*Store)(nil)

// NewStore creates a Drive store, building an authenticated service
// from the refresh-token credentials in cfg.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ts := google.NewRefreshTokenSource(ctx, cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken)
	svc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("drive: create service: %w", err)
	}
	return NewStoreWithService(svc, cfg), nil
}

// NewStoreWithService wraps an existing Drive service. Useful for tests
// and callers that manage authentication themselves.
func NewStoreWithService(svc *drive.Service, cfg Config) *Store {
	return &Store{
		svc:     svc,
		limiter: google.NewRateLimiter(),
		cfg:     cfg,
	}
}

// Service returns the registry service key for this backend.
func (s *Store) Service() string {
	return "drive"
}

// List enumerates the direct children of a folder, following page
// tokens until the listing is complete.
func (s *Store) List(ctx context.Context, folder string) ([]domain.RemoteObject, error) {
	query := childrenQuery(rootFolderID(folder))

	var objects []domain.RemoteObject
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := s.svc.Files.List().
			Q(query).
			PageSize(s.cfg.pageSize()).
			Fields("nextPageToken, files(" + fileFields + ")").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, s.apiError("list "+folder, err)
		}
		for _, f := range res.Files {
			objects = append(objects, toRemoteObject(f))
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	logger.Debug("drive: listed %d objects under %q", len(objects), folder)
	return objects, nil
}

// Download fetches the object at locator into localPath. Workspace
// documents have no binary form and are exported to text instead.
func (s *Store) Download(ctx context.Context, locator, localPath string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	meta, err := s.svc.Files.Get(locator).Fields("id, mimeType").Context(ctx).Do()
	if err != nil {
		return s.downloadError(locator, err)
	}
	if meta.MimeType == MimeTypeFolder {
		return fmt.Errorf("drive download %s: %w", locator, domain.ErrNotAFile)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	content, err := s.fetchContent(ctx, locator, meta.MimeType)
	if err != nil {
		return s.downloadError(locator, err)
	}
	defer content.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("drive download %s: %w", locator, err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		os.Remove(localPath)
		return fmt.Errorf("drive download %s: %w", locator, err)
	}
	return out.Close()
}

// fetchContent opens the content stream for a file, exporting Workspace
// documents and downloading everything else.
func (s *Store) fetchContent(ctx context.Context, locator, mimeType string) (io.ReadCloser, error) {
	if isWorkspaceDoc(mimeType) {
		resp, err := s.svc.Files.Export(locator, exportMimeFor(mimeType)).Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}
	resp, err := s.svc.Files.Get(locator).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Upload stores a local file under name inside destFolder and returns
// its web view link.
func (s *Store) Upload(ctx context.Context, localPath, name, destFolder string) (string, error) {
	in, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("drive upload %s: %w", name, err)
	}
	defer in.Close()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	meta := &drive.File{
		Name:    name,
		Parents: []string{rootFolderID(destFolder)},
	}
	created, err := s.svc.Files.Create(meta).Media(in).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", s.apiError("upload "+name, err)
	}

	if s.cfg.PublicUploads {
		perm := &drive.Permission{Type: "anyone", Role: "reader"}
		if _, err := s.svc.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
			logger.Warn("drive: could not make %s public: %v", name, err)
		}
	}

	return ResolveWebURL(created.Id, created.WebViewLink), nil
}

// Delete removes the object at locator.
func (s *Store) Delete(ctx context.Context, locator string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.svc.Files.Delete(locator).Context(ctx).Do(); err != nil {
		return s.apiError("delete "+locator, err)
	}
	return nil
}

// Move relocates an object into destFolder by rewriting its parents
// list. The locator does not change: Drive ids are stable across moves.
func (s *Store) Move(ctx context.Context, locator, destFolder string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	current, err := s.svc.Files.Get(locator).Fields("id, parents").Context(ctx).Do()
	if err != nil {
		return "", s.apiError("move "+locator, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	call := s.svc.Files.Update(locator, nil).
		AddParents(rootFolderID(destFolder)).
		Fields("id, parents").
		Context(ctx)
	if len(current.Parents) > 0 {
		call = call.RemoveParents(strings.Join(current.Parents, ","))
	}
	if _, err := call.Do(); err != nil {
		return "", s.apiError("move "+locator, err)
	}
	return locator, nil
}

// CreateFolder ensures a folder named name exists under parent and
// returns its id. An existing folder with that name is reused.
func (s *Store) CreateFolder(ctx context.Context, name, parent string) (string, error) {
	parentID := rootFolderID(parent)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	res, err := s.svc.Files.List().
		Q(folderQuery(name, parentID)).
		PageSize(1).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", s.apiError("find folder "+name, err)
	}
	if len(res.Files) > 0 {
		logger.Debug("drive: folder %s already exists as %s", name, res.Files[0].Id)
		return res.Files[0].Id, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	meta := &drive.File{
		Name:     name,
		MimeType: MimeTypeFolder,
		Parents:  []string{parentID},
	}
	created, err := s.svc.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", s.apiError("create folder "+name, err)
	}
	return created.Id, nil
}

// ShareLink returns the web view link for the object at locator.
func (s *Store) ShareLink(ctx context.Context, locator string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	f, err := s.svc.Files.Get(locator).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", s.apiError("share link "+locator, err)
	}
	return ResolveWebURL(f.Id, f.WebViewLink), nil
}

// Close releases resources. The Drive client is stateless.
func (s *Store) Close() error {
	return nil
}

// apiError classifies an API failure, records rate-limit backoffs, and
// maps missing resources to the domain error.
func (s *Store) apiError(op string, err error) error {
	if google.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
	wrapped := google.WrapError(err)
	if errors.Is(wrapped, google.ErrNotFound) {
		return fmt.Errorf("drive %s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("drive %s: %w", op, wrapped)
}

// downloadError maps download failures to the domain error vocabulary.
func (s *Store) downloadError(locator string, err error) error {
	if google.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
	if google.IsNotFound(err) {
		return fmt.Errorf("drive download %s: %w", locator, domain.ErrNotFound)
	}
	return fmt.Errorf("drive download %s: %w", locator, domain.ErrDownloadFailed)
}
