package domain

// FolderRef is a logical folder node, independent per backend.
// Folders form a tree through ParentID; the root has a nil parent.
type FolderRef struct {
	// ID is the surrogate identifier assigned by the registry.
	ID int64

	// Name is the folder display name.
	Name string

	// Service names the backend the folder belongs to.
	Service string

	// CloudFolderID is the opaque backend folder identifier. For
	// path-addressed backends this is the folder path.
	CloudFolderID string

	// ParentID references the parent folder, nil for roots.
	ParentID *int64
}

// CategoryCache maps service -> category name -> cloud folder id.
// It is loaded from the registry at the start of a reorganization run and
// persisted as folders are created, so repeated runs avoid recreating
// folders or re-listing the backend to find them.
type CategoryCache map[string]map[string]string

// Get returns the cached folder id for (service, category).
func (c CategoryCache) Get(service, category string) (string, bool) {
	byCategory, ok := c[service]
	if !ok {
		return "", false
	}
	id, ok := byCategory[category]
	return id, ok
}

// Put records a folder id for (service, category).
func (c CategoryCache) Put(service, category, folderID string) {
	if c[service] == nil {
		c[service] = make(map[string]string)
	}
	c[service][category] = folderID
}
