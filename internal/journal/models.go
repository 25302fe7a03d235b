package journal

import (
	"database/sql"
	"time"
)

// Run is one organize invocation.
type Run struct {
	ID         string         `db:"id" json:"id"`
	Root       string         `db:"root" json:"root"`
	Recursive  bool           `db:"recursive" json:"recursive"`
	StartedAt  string         `db:"started_at" json:"started_at"`
	FinishedAt sql.NullString `db:"finished_at" json:"-"`
	Files      int            `db:"files" json:"files"`
	Moved      int            `db:"moved" json:"moved"`
	Failed     int            `db:"failed" json:"failed"`
	BytesMoved int64          `db:"bytes_moved" json:"bytes_moved"`
	Pruned     int            `db:"pruned" json:"pruned"`
	Error      string         `db:"error" json:"error,omitempty"`
}

// Started parses the stored start timestamp.
func (r Run) Started() time.Time {
	return parseTime(r.StartedAt)
}

// Finished returns the end timestamp, or the zero time while the run is open
// or when it was interrupted before closing.
func (r Run) Finished() time.Time {
	if !r.FinishedAt.Valid {
		return time.Time{}
	}
	return parseTime(r.FinishedAt.String)
}

// Move is the recorded placement of one file.
type Move struct {
	ID          int64  `db:"id" json:"id"`
	RunID       string `db:"run_id" json:"run_id"`
	Source      string `db:"source" json:"source"`
	Destination string `db:"destination" json:"destination,omitempty"`
	Outcome     string `db:"outcome" json:"outcome"`
	Size        int64  `db:"size" json:"size"`
	Error       string `db:"error" json:"error,omitempty"`
	RecordedAt  string `db:"recorded_at" json:"recorded_at"`
}

// Summary closes a run.
type Summary struct {
	Files      int
	Moved      int
	Failed     int
	BytesMoved int64
	Pruned     int
	Err        error
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
