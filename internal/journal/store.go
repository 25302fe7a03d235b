package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"sortbox/internal/fileutil"
	"sortbox/internal/services"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sqlx.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the journal database at path, creating the
// parent directory when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "journal path is empty", nil)
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps pragmas applied for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts an open run row and returns its id.
func (s *Store) BeginRun(ctx context.Context, root string, recursive bool) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx,
		`INSERT INTO runs (id, root, recursive, started_at) VALUES (?, ?, ?, ?)`,
		id, root, recursive, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Record appends one placement to a run.
func (s *Store) Record(ctx context.Context, move Move) error {
	if move.RunID == "" {
		return services.Wrap(services.ErrValidation, "journal", "record", "run id is required", nil)
	}
	if move.RecordedAt == "" {
		move.RecordedAt = formatTime(time.Now())
	}
	err := retryOnBusy(ensureContext(ctx), func() error {
		_, err := s.db.NamedExecContext(ensureContext(ctx),
			`INSERT INTO moves (run_id, source, destination, outcome, size, error, recorded_at)
			 VALUES (:run_id, :source, :destination, :outcome, :size, :error, :recorded_at)`,
			move,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

// FinishRun closes a run with its summary counts.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary) error {
	errText := ""
	if summary.Err != nil {
		errText = summary.Err.Error()
	}
	res, err := s.execResult(ctx,
		`UPDATE runs SET finished_at = ?, files = ?, moved = ?, failed = ?, bytes_moved = ?, pruned = ?, error = ?
		 WHERE id = ?`,
		formatTime(time.Now()), summary.Files, summary.Moved, summary.Failed,
		summary.BytesMoved, summary.Pruned, errText, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return services.Wrap(services.ErrNotFound, "journal", "finish run", "run "+runID, nil)
	}
	return nil
}

// Runs lists the most recent runs, newest first. A limit <= 0 returns all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT * FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var runs []Run
	if err := s.db.SelectContext(ensureContext(ctx), &runs, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Run returns a single run by id, or ErrNotFound. A unique id prefix is accepted.
func (s *Store) Run(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "journal", "get run", "run id is required", nil)
	}
	var runs []Run
	err := s.db.SelectContext(ensureContext(ctx), &runs,
		`SELECT * FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2`,
		id, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i], nil
		}
	}
	switch len(runs) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "journal", "get run", "no run matches "+id, sql.ErrNoRows)
	case 1:
		return &runs[0], nil
	default:
		return nil, services.Wrap(services.ErrConflict, "journal", "get run", "run id prefix "+id+" is ambiguous", nil)
	}
}

// Moves lists the placements recorded for a run in the order they happened.
func (s *Store) Moves(ctx context.Context, runID string) ([]Move, error) {
	var moves []Move
	err := s.db.SelectContext(ensureContext(ctx), &moves,
		`SELECT * FROM moves WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	return moves, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execResult(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.execResult(ctx, query, args...)
	return err
}
