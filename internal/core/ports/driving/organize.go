package driving

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// Organizer moves already-uploaded remote files into per-category folders
// on each backend, caching folder identities to avoid redundant remote
// round-trips. Running it twice does no work the second time.
type Organizer interface {
	// Organize reorganizes every configured backend, streaming one
	// progress message per file or decision. Per-file failures are
	// folded into the report.
	Organize(ctx context.Context, progress domain.ProgressFunc) (*domain.Report, error)
}
