package domain

import "fmt"

// Stage identifies where in the per-file pipeline an outcome occurred.
type Stage string

// Pipeline stages. Each discovered file moves DISCOVERED -> SKIPPED, or
// DISCOVERED -> DOWNLOADING -> EXTRACTING -> EMBEDDING -> REGISTERED, with any
// stage able to fail without halting the scan.
const (
	StageDiscovered  Stage = "discovered"
	StageSkipped     Stage = "skipped"
	StageDownloading Stage = "downloading"
	StageExtracting  Stage = "extracting"
	StageEmbedding   Stage = "embedding"
	StageRegistered  Stage = "registered"
	StageMoved       Stage = "moved"
	StageFailed      Stage = "failed"
)

// FileOutcome records the terminal state of one file within a batch run.
type FileOutcome struct {
	Name    string
	Service string
	Stage   Stage
	Err     error
}

// Report aggregates a reconciliation or reorganization run.
// Per-file failures are folded in here and never abort the batch.
type Report struct {
	// New counts newly registered (or re-completed) entries.
	New int

	// Moved counts files relocated by the reorganizer.
	Moved int

	// Errors counts per-file failures, excluding soft skips.
	Errors int

	// Outcomes carries the individual per-file results.
	Outcomes []FileOutcome
}

// Record appends an outcome and updates the counters.
func (r *Report) Record(o FileOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Stage {
	case StageRegistered:
		r.New++
	case StageMoved:
		r.Moved++
	case StageFailed:
		r.Errors++
	}
}

// Summary returns the terse human-readable completion string.
func (r *Report) Summary() string {
	return fmt.Sprintf("COMPLETED: %d new, %d errors.", r.New, r.Errors)
}

// MoveSummary returns the completion string for a reorganization run.
func (r *Report) MoveSummary() string {
	return fmt.Sprintf("COMPLETED: %d files moved, %d errors.", r.Moved, r.Errors)
}

// ProgressFunc receives one message per file or decision during batch
// operations, so a caller (CLI, SSE endpoint) can render live progress
// without blocking until completion. A nil ProgressFunc is silent.
type ProgressFunc func(msg string)

// Emit sends a formatted message if the sink is non-nil.
func (f ProgressFunc) Emit(format string, args ...any) {
	if f != nil {
		f(fmt.Sprintf(format, args...))
	}
}
