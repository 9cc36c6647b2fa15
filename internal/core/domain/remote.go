package domain

// RemoteObject is one entry in a remote store listing.
// Backends differ in how objects are addressed: Dropbox uses lowercase
// paths as locators, Google Drive uses opaque file ids with a Parents
// membership list. Consumers never branch on the backend; they use the
// locator and parent information opaquely.
type RemoteObject struct {
	// Locator is the backend-native address of the object.
	Locator string

	// Name is the display name of the object.
	Name string

	// Path is a human-readable location, when the backend exposes one.
	Path string

	// IsFolder marks directory entries.
	IsFolder bool

	// Parents lists the containing folder ids for id-addressed backends.
	// Empty for path-addressed backends, where Path carries the location.
	Parents []string

	// Size is the object size in bytes, when known.
	Size int64
}
