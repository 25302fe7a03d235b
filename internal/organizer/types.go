package organizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sortbox/internal/datebucket"
)

// Outcome describes what happened to a single file.
type Outcome string

const (
	// OutcomePlaced means the file moved into its dated category folder.
	OutcomePlaced Outcome = "placed"
	// OutcomeOthers means no rule matched and the file moved into the dated others folder.
	OutcomeOthers Outcome = "others"
	// OutcomeDuplicate means the file was diverted to the duplicates folder.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeInPlace means the file already sat at its computed destination.
	OutcomeInPlace Outcome = "in_place"
	// OutcomeSkipped means the collision policy left the file where it was.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means an I/O error left the file where it was.
	OutcomeFailed Outcome = "failed"
)

// Placement is the result of organizing one file.
type Placement struct {
	Source      string            `json:"source"`
	Destination string            `json:"destination,omitempty"`
	Outcome     Outcome           `json:"outcome"`
	Bucket      datebucket.Bucket `json:"bucket"`
	Category    []string          `json:"category,omitempty"`
	Size        int64             `json:"size"`
	Err         error             `json:"-"`
}

// Moved reports whether the file changed location.
func (p Placement) Moved() bool {
	switch p.Outcome {
	case OutcomePlaced, OutcomeOthers, OutcomeDuplicate:
		return true
	default:
		return false
	}
}

// FileError records a failure tied to one path.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// MarshalJSON renders the wrapped error as text.
func (e *FileError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		Path  string `json:"path"`
		Op    string `json:"op"`
		Error string `json:"error"`
	}{e.Path, e.Op, msg})
}

// Report aggregates the results of one Organize call.
type Report struct {
	Root       string       `json:"root"`
	Recursive  bool         `json:"recursive"`
	Placements []Placement  `json:"placements"`
	Failures   []*FileError `json:"failures,omitempty"`
	Pruned     []string     `json:"pruned,omitempty"`
	Cleaned    []string     `json:"cleaned,omitempty"`
	Started    time.Time    `json:"started"`
	Finished   time.Time    `json:"finished"`
}

// Count returns how many files ended with outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, p := range r.Placements {
		if p.Outcome == outcome {
			n++
		}
	}
	return n
}

// BytesMoved sums the sizes of files that changed location.
func (r *Report) BytesMoved() int64 {
	var total int64
	for _, p := range r.Placements {
		if p.Moved() {
			total += p.Size
		}
	}
	return total
}

// Elapsed returns the wall time of the run.
func (r *Report) Elapsed() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Err joins every recorded failure, or returns nil when the run was clean.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

func (r *Report) fail(path, op string, err error) *FileError {
	fe := &FileError{Path: path, Op: op, Err: err}
	r.Failures = append(r.Failures, fe)
	return fe
}

// Notifier receives a synchronous callback after each file is handled,
// whatever its outcome.
type Notifier interface {
	FileProcessed(Placement)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Placement)

func (f NotifierFunc) FileProcessed(p Placement) { f(p) }

// MultiNotifier fans a callback out to several notifiers in order. Nil
// entries are skipped.
func MultiNotifier(notifiers ...Notifier) Notifier {
	list := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return NotifierFunc(func(p Placement) {
		for _, n := range list {
			n.FileProcessed(p)
		}
	})
}
