package organizer

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sortbox/internal/category"
	"sortbox/internal/datebucket"
	"sortbox/internal/dupes"
	"sortbox/internal/fileutil"
	"sortbox/internal/logging"
	"sortbox/internal/services"
)

// Folder names under the root that are not produced by category rules.
const (
	DuplicatesDir = category.Duplicates
	OthersDir     = category.Others
)

type planner struct {
	root      string
	resolver  *category.Resolver
	source    datebucket.Source
	location  *time.Location
	collision CollisionPolicy
	logger    *slog.Logger
}

// destination computes root/year/month/week/<category segments or others>.
func (p *planner) destination(name string, bucket datebucket.Bucket) (string, []string, Outcome) {
	segments := append([]string{p.root}, bucket.Segments()...)
	match, ok := p.resolver.Resolve(name)
	if !ok {
		return filepath.Join(append(segments, OthersDir)...), nil, OutcomeOthers
	}
	cat := match.Segments()
	return filepath.Join(append(segments, cat...)...), cat, OutcomePlaced
}

// place organizes a single file and records any failure on report.
func (p *planner) place(path string, report *Report) Placement {
	name := filepath.Base(path)
	placement := Placement{Source: path}

	info, err := os.Lstat(path)
	if err != nil {
		return p.failed(report, placement, "stat", err)
	}
	placement.Size = info.Size()
	placement.Bucket = datebucket.Compute(p.source.Timestamp(path, info), p.location)

	destDir, cat, outcome := p.destination(name, placement.Bucket)
	placement.Category = cat
	if err := fileutil.EnsureDir(destDir); err != nil {
		return p.failed(report, placement, "mkdir", err)
	}

	var self string
	if filepath.Dir(path) == destDir {
		self = name
	}
	duplicate, err := dupes.CheckDir(destDir, name, self)
	if err != nil {
		return p.failed(report, placement, "list", err)
	}

	if duplicate {
		outcome = OutcomeDuplicate
		destDir = filepath.Join(p.root, DuplicatesDir)
		if err := fileutil.EnsureDir(destDir); err != nil {
			return p.failed(report, placement, "mkdir", err)
		}
	}

	if filepath.Dir(path) == destDir {
		placement.Destination = path
		placement.Outcome = OutcomeInPlace
		p.logger.Debug("file already in place", logging.String("file", path))
		return placement
	}

	target, ok, err := resolveTarget(destDir, name, p.collision)
	if err != nil {
		return p.failed(report, placement, "resolve target", err)
	}
	if !ok {
		placement.Destination = target
		placement.Outcome = OutcomeSkipped
		placement.Err = services.Wrap(services.ErrConflict, "organizer", "place", "a file with the same name already exists at "+target, errTargetExists)
		report.fail(path, "place", placement.Err)
		logging.WarnWithContext(p.logger, "file skipped", "file_collision",
			logging.String("file", path),
			logging.String("target", target),
			logging.String(logging.FieldErrorHint, "rename the file or set organize.collision to rename"),
			logging.String(logging.FieldImpact, "file left in place"),
		)
		return placement
	}

	if err := fileutil.MoveFile(path, target); err != nil {
		return p.failed(report, placement, "move", err)
	}
	placement.Destination = target
	placement.Outcome = outcome
	p.logger.Debug("file placed",
		logging.String("file", path),
		logging.String("destination", target),
		logging.String("outcome", string(outcome)),
		logging.Any("category", cat),
	)
	return placement
}

func (p *planner) failed(report *Report, placement Placement, op string, err error) Placement {
	placement.Outcome = OutcomeFailed
	placement.Err = report.fail(placement.Source, op, err)
	logging.WarnWithContext(p.logger, "file not organized", "file_"+op+"_failed",
		logging.String("file", placement.Source),
		logging.String("op", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions and free space for the target folder"),
		logging.String(logging.FieldImpact, "file left in place"),
	)
	return placement
}
