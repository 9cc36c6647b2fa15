package driving

import (
	"context"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
)

// Reconciler brings the registry in line with the remote stores,
// processing only the delta: files missing from the registry or missing
// an embedding or summary.
type Reconciler interface {
	// Reconcile scans every configured backend and indexes the gaps.
	// Per-file failures are folded into the report; only a failure to
	// begin the scan at all is returned as an error. Progress messages
	// are emitted to the sink as the scan advances; cancellation is
	// honored between files, never mid-file.
	Reconcile(ctx context.Context, progress domain.ProgressFunc) (*domain.Report, error)
}
