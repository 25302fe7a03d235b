package organizer

import (
	"log/slog"
	"os"
	"time"

	"sortbox/internal/logging"
)

// staleTempAge is how old a cross-device move temp file must be before a run
// treats it as abandoned by an interrupted process.
const staleTempAge = time.Hour

// removeStaleTemps deletes abandoned move temp files found by the walk.
// Younger temps may belong to a concurrent move and are left alone.
func removeStaleTemps(paths []string, report *Report, logger *slog.Logger) {
	cutoff := time.Now().Add(-staleTempAge)
	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			report.fail(path, "cleanup", err)
			logging.WarnWithContext(logger, "failed to remove stale move temp file", "temp_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the file manually"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		report.Cleaned = append(report.Cleaned, path)
		logger.Info("removed stale move temp file",
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "temp_cleanup"),
		)
	}
}
