package drive

import (
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"

	workspaceMimePrefix = "application/vnd.google-apps."
)

// Export formats for Google Workspace files, which have no binary
// representation and must be exported rather than downloaded.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// fileFields is the field mask requested on listings and lookups.
const fileFields = "id, name, mimeType, size, parents, webViewLink, trashed"

// toRemoteObject converts a Drive file to a domain listing entry.
// Drive is id-addressed: the locator is the opaque file id and the
// containing folders appear in Parents.
func toRemoteObject(f *drive.File) domain.RemoteObject {
	return domain.RemoteObject{
		Locator:  f.Id,
		Name:     f.Name,
		IsFolder: f.MimeType == MimeTypeFolder,
		Parents:  f.Parents,
		Size:     f.Size,
	}
}

// isWorkspaceDoc reports whether a MIME type is a Google Workspace
// document that requires export instead of download.
func isWorkspaceDoc(mimeType string) bool {
	return strings.HasPrefix(mimeType, workspaceMimePrefix) && mimeType != MimeTypeFolder
}

// exportMimeFor picks the export format for a Workspace document.
func exportMimeFor(mimeType string) string {
	if mimeType == MimeTypeGoogleSheet {
		return ExportMimeCSV
	}
	return ExportMimeText
}

// childrenQuery builds the files.list query for the direct children of
// a folder.
func childrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryTerm(folderID))
}

// folderQuery builds the files.list query that finds a folder by name
// under a parent.
func folderQuery(name, parentID string) string {
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		escapeQueryTerm(name), MimeTypeFolder, escapeQueryTerm(parentID))
}

// escapeQueryTerm escapes a value for inclusion in a Drive query
// string, where terms are single-quoted.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// rootFolderID maps the universal empty-string root locator to Drive's
// root alias.
func rootFolderID(folder string) string {
	if folder == "" {
		return "root"
	}
	return folder
}
