// Package dropbox implements the CloudStore port over the Dropbox HTTP API.
// Dropbox addresses objects by path: locators are lowercase paths as
// returned by the API, and the empty string means the root folder.
package dropbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/sharing"
	"golang.org/x/oauth2"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// tokenURL is the Dropbox OAuth2 token endpoint used to exchange the
// long-lived refresh token for short-lived access tokens.
const tokenURL = "https://api.dropboxapi.com/oauth2/token"

// Config holds the settings for the Dropbox store.
type Config struct {
	// AccessToken is a raw access token. When set, it is used directly
	// and the refresh-token fields are ignored.
	AccessToken string

	// AppKey, AppSecret and RefreshToken together enable automatic
	// token refresh, which is what long-running syncs need since access
	// tokens are short-lived.
	AppKey       string
	AppSecret    string
	RefreshToken string
}

// Store implements driven.CloudStore for Dropbox.
type Store struct {
	tokens oauth2.TokenSource
}

var _ driven.CloudStore = (*Store)(nil)

// NewStore creates a Dropbox store from the given config.
func NewStore(cfg Config) (*Store, error) {
	switch {
	case cfg.AccessToken != "":
		return &Store{tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})}, nil
	case cfg.AppKey != "" && cfg.AppSecret != "" && cfg.RefreshToken != "":
		conf := &oauth2.Config{
			ClientID:     cfg.AppKey,
			ClientSecret: cfg.AppSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		}
		src := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
		return &Store{tokens: oauth2.ReuseTokenSource(nil, src)}, nil
	default:
		return nil, fmt.Errorf("dropbox: access token or app key, app secret and refresh token are required")
	}
}

// Service returns the registry service key for this backend.
func (s *Store) Service() string {
	return "dropbox"
}

// clients builds per-call API clients with a fresh access token.
// The SDK config is a value type, so this is cheap.
func (s *Store) clients() (files.Client, sharing.Client, error) {
	tok, err := s.tokens.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("dropbox auth: %w", err)
	}
	cfg := dropbox.Config{Token: tok.AccessToken}
	return files.New(cfg), sharing.New(cfg), nil
}

// List enumerates the objects directly inside a folder, following
// continuation cursors until the listing is complete. The empty string
// lists the root, which is what the Dropbox API expects for it.
func (s *Store) List(ctx context.Context, folder string) ([]domain.RemoteObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fc, _, err := s.clients()
	if err != nil {
		return nil, err
	}

	path := folder
	if path == "/" {
		path = ""
	}

	res, err := fc.ListFolder(files.NewListFolderArg(path))
	if err != nil {
		return nil, mapListError(err, folder)
	}

	var objects []domain.RemoteObject
	objects = appendEntries(objects, res.Entries)
	for res.HasMore {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err = fc.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, fmt.Errorf("dropbox list continue: %w", err)
		}
		objects = appendEntries(objects, res.Entries)
	}

	logger.Debug("dropbox: listed %d objects under %q", len(objects), folder)
	return objects, nil
}

// appendEntries converts SDK listing entries to domain objects.
// Unknown metadata kinds (deleted markers) are skipped.
func appendEntries(dst []domain.RemoteObject, entries []files.IsMetadata) []domain.RemoteObject {
	for _, entry := range entries {
		switch md := entry.(type) {
		case *files.FileMetadata:
			dst = append(dst, domain.RemoteObject{
				Locator: md.PathLower,
				Name:    md.Name,
				Path:    md.PathDisplay,
				Size:    int64(md.Size),
			})
		case *files.FolderMetadata:
			dst = append(dst, domain.RemoteObject{
				Locator:  md.PathLower,
				Name:     md.Name,
				Path:     md.PathDisplay,
				IsFolder: true,
			})
		}
	}
	return dst
}

// Download fetches the object at locator into localPath.
func (s *Store) Download(ctx context.Context, locator, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fc, _, err := s.clients()
	if err != nil {
		return err
	}

	_, content, err := fc.Download(files.NewDownloadArg(locator))
	if err != nil {
		return mapDownloadError(err, locator)
	}
	defer content.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("dropbox download %s: %w", locator, err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		os.Remove(localPath)
		return fmt.Errorf("dropbox download %s: %w", locator, err)
	}
	return out.Close()
}

// Upload stores a local file under name inside destFolder, overwriting
// any existing object at that path, and returns its shareable URL.
func (s *Store) Upload(ctx context.Context, localPath, name, destFolder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fc, _, err := s.clients()
	if err != nil {
		return "", err
	}

	in, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("dropbox upload %s: %w", name, err)
	}
	defer in.Close()

	path := cloudPath(destFolder, name)
	arg := files.NewUploadArg(path)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: files.WriteModeOverwrite}}
	md, err := fc.Upload(arg, in)
	if err != nil {
		return "", fmt.Errorf("dropbox upload %s: %w", name, err)
	}

	link, err := s.ShareLink(ctx, md.PathLower)
	if err != nil {
		logger.Warn("dropbox: uploaded %s but could not create link: %v", name, err)
		return ResolveWebURL(md.PathDisplay, md.Id), nil
	}
	return link, nil
}

// Delete removes the object at locator.
func (s *Store) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fc, _, err := s.clients()
	if err != nil {
		return err
	}

	if _, err := fc.DeleteV2(files.NewDeleteArg(locator)); err != nil {
		var apiErr files.DeleteV2APIError
		if errors.As(err, &apiErr) && apiErr.EndpointError != nil &&
			apiErr.EndpointError.PathLookup != nil &&
			apiErr.EndpointError.PathLookup.Tag == files.LookupErrorNotFound {
			return fmt.Errorf("dropbox delete %s: %w", locator, domain.ErrNotFound)
		}
		return fmt.Errorf("dropbox delete %s: %w", locator, err)
	}
	return nil
}

// Move relocates the object at locator into destFolder, keeping its
// base name, and returns the new locator.
func (s *Store) Move(ctx context.Context, locator, destFolder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fc, _, err := s.clients()
	if err != nil {
		return "", err
	}

	toPath := cloudPath(destFolder, baseName(locator))
	res, err := fc.MoveV2(files.NewRelocationArg(locator, toPath))
	if err != nil {
		return "", fmt.Errorf("dropbox move %s: %w", locator, err)
	}
	if md, ok := res.Metadata.(*files.FileMetadata); ok {
		return md.PathLower, nil
	}
	if md, ok := res.Metadata.(*files.FolderMetadata); ok {
		return md.PathLower, nil
	}
	return strings.ToLower(toPath), nil
}

// CreateFolder ensures a folder named name exists under parent and
// returns its locator. A conflict means the folder already exists, so
// its path is returned instead of an error.
func (s *Store) CreateFolder(ctx context.Context, name, parent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fc, _, err := s.clients()
	if err != nil {
		return "", err
	}

	path := cloudPath(parent, name)
	res, err := fc.CreateFolderV2(files.NewCreateFolderArg(path))
	if err != nil {
		var apiErr files.CreateFolderV2APIError
		if errors.As(err, &apiErr) && apiErr.EndpointError != nil &&
			apiErr.EndpointError.Path != nil &&
			apiErr.EndpointError.Path.Tag == files.WriteErrorConflict {
			logger.Debug("dropbox: folder %s already exists", path)
			return strings.ToLower(path), nil
		}
		return "", fmt.Errorf("dropbox create folder %s: %w", path, err)
	}
	return res.Metadata.PathLower, nil
}

// ShareLink returns a shareable URL for the object at locator, reusing
// an existing shared link when one is present. Links are rewritten to
// direct-download form.
func (s *Store) ShareLink(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, sc, err := s.clients()
	if err != nil {
		return "", err
	}

	listArg := sharing.NewListSharedLinksArg()
	listArg.Path = locator
	listArg.DirectOnly = true
	if res, err := sc.ListSharedLinks(listArg); err == nil && len(res.Links) > 0 {
		if url := linkURL(res.Links[0]); url != "" {
			return directDownloadURL(url), nil
		}
	}

	md, err := sc.CreateSharedLinkWithSettings(sharing.NewCreateSharedLinkWithSettingsArg(locator))
	if err != nil {
		var apiErr sharing.CreateSharedLinkWithSettingsAPIError
		if errors.As(err, &apiErr) && apiErr.EndpointError != nil &&
			apiErr.EndpointError.Tag == sharing.CreateSharedLinkWithSettingsErrorSharedLinkAlreadyExists {
			// Raced with another link creator. List again.
			if res, lerr := sc.ListSharedLinks(listArg); lerr == nil && len(res.Links) > 0 {
				if url := linkURL(res.Links[0]); url != "" {
					return directDownloadURL(url), nil
				}
			}
		}
		return "", fmt.Errorf("dropbox share link %s: %w", locator, err)
	}
	if url := linkURL(md); url != "" {
		return directDownloadURL(url), nil
	}
	return "", fmt.Errorf("dropbox share link %s: empty link metadata", locator)
}

// Close releases resources. The Dropbox client is stateless.
func (s *Store) Close() error {
	return nil
}

// linkURL extracts the URL from shared-link metadata.
func linkURL(md sharing.IsSharedLinkMetadata) string {
	switch m := md.(type) {
	case *sharing.FileLinkMetadata:
		return m.Url
	case *sharing.FolderLinkMetadata:
		return m.Url
	default:
		return ""
	}
}

// directDownloadURL rewrites a Dropbox shared link so that opening it
// downloads the file instead of showing the preview page.
func directDownloadURL(url string) string {
	return strings.Replace(url, "?dl=0", "?dl=1", 1)
}

// cloudPath joins a folder and a name into an API path. Dropbox paths
// are absolute, slash-separated, and never contain empty segments.
func cloudPath(folder, name string) string {
	p := "/" + strings.Trim(folder, "/") + "/" + strings.Trim(name, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// baseName returns the last path segment of a locator.
func baseName(locator string) string {
	trimmed := strings.TrimSuffix(locator, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// mapDownloadError translates SDK download failures into domain errors.
func mapDownloadError(err error, locator string) error {
	var apiErr files.DownloadAPIError
	if errors.As(err, &apiErr) && apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil {
		switch apiErr.EndpointError.Path.Tag {
		case files.LookupErrorNotFound:
			return fmt.Errorf("dropbox download %s: %w", locator, domain.ErrNotFound)
		case files.LookupErrorNotFile:
			return fmt.Errorf("dropbox download %s: %w", locator, domain.ErrNotAFile)
		}
	}
	return fmt.Errorf("dropbox download %s: %w", locator, domain.ErrDownloadFailed)
}

// mapListError translates SDK listing failures into domain errors.
func mapListError(err error, folder string) error {
	var apiErr files.ListFolderAPIError
	if errors.As(err, &apiErr) && apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil &&
		apiErr.EndpointError.Path.Tag == files.LookupErrorNotFound {
		return fmt.Errorf("dropbox list %s: %w", folder, domain.ErrNotFound)
	}
	return fmt.Errorf("dropbox list %s: %w", folder, err)
}
