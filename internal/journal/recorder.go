package journal

import (
	"context"
	"log/slog"

	"sortbox/internal/logging"
	"sortbox/internal/organizer"
)

// Recorder writes each placement of a run to the journal. It satisfies
// organizer.Notifier. Write failures are logged and never stop the run.
type Recorder struct {
	ctx    context.Context
	store  *Store
	runID  string
	logger *slog.Logger
	failed int
}

// NewRecorder binds a recorder to an open run.
func NewRecorder(ctx context.Context, store *Store, runID string, logger *slog.Logger) *Recorder {
	return &Recorder{
		ctx:    ctx,
		store:  store,
		runID:  runID,
		logger: logging.NewComponentLogger(logger, "journal"),
	}
}

// FileProcessed implements organizer.Notifier.
func (r *Recorder) FileProcessed(p organizer.Placement) {
	move := Move{
		RunID:       r.runID,
		Source:      p.Source,
		Destination: p.Destination,
		Outcome:     string(p.Outcome),
		Size:        p.Size,
	}
	if p.Err != nil {
		move.Error = p.Err.Error()
	}
	// The run context may already be canceled; the record still describes
	// work that happened.
	if err := r.store.Record(context.WithoutCancel(r.ctx), move); err != nil {
		r.failed++
		if r.failed == 1 {
			logging.WarnWithContext(r.logger, "journal write failed", "journal_write_failed",
				logging.String("file", p.Source),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check free space and permissions for the state directory"),
				logging.String(logging.FieldImpact, "journal for this run is incomplete"),
			)
		}
	}
}

// Failed returns how many records could not be written.
func (r *Recorder) Failed() int {
	return r.failed
}

// SummaryFromReport builds the run summary stored by FinishRun.
func SummaryFromReport(report *organizer.Report, runErr error) Summary {
	summary := Summary{Err: runErr}
	if report == nil {
		return summary
	}
	summary.Files = len(report.Placements)
	for _, p := range report.Placements {
		if p.Moved() {
			summary.Moved++
		}
	}
	summary.Failed = len(report.Failures)
	summary.BytesMoved = report.BytesMoved()
	summary.Pruned = len(report.Pruned)
	if summary.Err == nil {
		summary.Err = report.Err()
	}
	return summary
}
