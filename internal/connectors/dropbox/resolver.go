package dropbox

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveWebURL builds a best-effort Dropbox web URL for an object when
// no shared link could be created. The path form opens the file in the
// owner's own Dropbox; the preview form works when only the id is known.
func ResolveWebURL(path, id string) string {
	if path != "" {
		encoded := url.PathEscape(strings.TrimPrefix(path, "/"))
		return fmt.Sprintf("https://www.dropbox.com/home/%s", encoded)
	}
	if id != "" {
		return fmt.Sprintf("https://www.dropbox.com/preview/%s", strings.TrimPrefix(id, "id:"))
	}
	return "https://www.dropbox.com/home"
}
