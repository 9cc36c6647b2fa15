package drive

import "fmt"

// DefaultPageSize is the listing page size for API requests.
const DefaultPageSize = 100

// Config holds Google Drive store configuration. Credentials are the
// installed-app OAuth client plus a refresh token obtained once through
// the consent flow.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// PageSize overrides the listing page size. Zero means DefaultPageSize.
	PageSize int64

	// PublicUploads controls whether uploaded files get an anyone-with-
	// the-link reader permission so their web links open for recipients.
	PublicUploads bool
}

// Validate checks that the required credential fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return fmt.Errorf("drive: client id, client secret and refresh token are required")
	}
	return nil
}

func (c *Config) pageSize() int64 {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}
