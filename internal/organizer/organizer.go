package organizer

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"sortbox/internal/category"
	"sortbox/internal/datebucket"
	"sortbox/internal/fileutil"
	"sortbox/internal/logging"
	"sortbox/internal/preflight"
	"sortbox/internal/services"
)

// Options configures a single Organize run.
type Options struct {
	Root           string
	Recursive      bool
	PruneEmptyDirs bool

	// Resolver defaults to the built-in rule table.
	Resolver *category.Resolver
	// DateSource defaults to file modification time.
	DateSource datebucket.Source
	// Location defaults to time.Local.
	Location *time.Location
	// Collision defaults to CollisionRename.
	Collision CollisionPolicy
	// PrecreateFolders creates one folder per category plus duplicates and
	// others at the root before the walk.
	PrecreateFolders bool

	Notifier Notifier
	Logger   *slog.Logger
}

// Organize moves every regular file under opts.Root into its dated category
// folder. Per-file failures are collected on the returned Report and do not
// stop the run. The error is non-nil only when the root is unusable or ctx is
// canceled; the Report is returned in both cases with whatever was completed.
func Organize(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{Recursive: opts.Recursive, Started: time.Now()}
	defer func() { report.Finished = time.Now() }()

	root := opts.Root
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return report, services.Wrap(services.ErrValidation, "organizer", "resolve root", root, err)
		}
		root = abs
	}
	report.Root = root
	if err := preflight.CheckRoot(root); err != nil {
		return report, err
	}

	ctx = services.WithRoot(ctx, root)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "organizer"))

	p := &planner{
		root:      root,
		resolver:  opts.Resolver,
		source:    opts.DateSource,
		location:  opts.Location,
		collision: opts.Collision,
		logger:    logger,
	}
	if p.resolver == nil {
		p.resolver = category.Default()
	}
	if p.source == "" {
		p.source = datebucket.SourceModTime
	}
	if p.location == nil {
		p.location = time.Local
	}
	if p.collision == "" {
		p.collision = CollisionRename
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(Placement) {})
	}

	logger.Info("organize started",
		logging.Bool("recursive", opts.Recursive),
		logging.String("date_source", string(p.source)),
		logging.String("collision", string(p.collision)),
	)

	var pending []string
	if opts.PrecreateFolders {
		names := append(category.Categories(p.resolver.Rules()), DuplicatesDir, OthersDir)
		pending = precreate(root, names)
		if len(pending) > 0 {
			logger.Debug("precreate deferred until after the walk", logging.Any("folders", pending))
		}
	}

	files, temps, err := collect(root, opts.Recursive, report)
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "organizer", "list root", root, err)
	}
	logger.Debug("files collected", logging.Int("count", len(files)))
	removeStaleTemps(temps, report, logger)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			logger.Info("organize canceled",
				logging.Int("processed", len(report.Placements)),
				logging.Int("remaining", len(files)-len(report.Placements)),
			)
			return report, services.Wrap(services.ErrCanceled, "organizer", "organize", "run canceled", err)
		}
		placement := p.place(path, report)
		report.Placements = append(report.Placements, placement)
		notifier.FileProcessed(placement)
	}

	// A regular file sharing a folder's name has been organized by now.
	for _, name := range precreate(root, pending) {
		logging.WarnWithContext(logger, "folder not created", "precreate_failed",
			logging.String("folder", filepath.Join(root, name)),
			logging.String(logging.FieldErrorHint, "a file or unwritable entry occupies the folder name"),
			logging.String(logging.FieldImpact, "folder will be created on demand"),
		)
	}

	if opts.PruneEmptyDirs {
		removed, err := fileutil.RemoveEmptyDirs(root)
		report.Pruned = removed
		if err != nil {
			report.fail(root, "prune", err)
			logging.WarnWithContext(logger, "empty directory cleanup incomplete", "prune_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the listed directories"),
				logging.String(logging.FieldImpact, "some empty directories remain"),
			)
		}
	}

	logger.Info("organize finished",
		logging.Int("files", len(report.Placements)),
		logging.Int(string(OutcomePlaced), report.Count(OutcomePlaced)),
		logging.Int(string(OutcomeOthers), report.Count(OutcomeOthers)),
		logging.Int(string(OutcomeDuplicate), report.Count(OutcomeDuplicate)),
		logging.Int(string(OutcomeInPlace), report.Count(OutcomeInPlace)),
		logging.Int(string(OutcomeFailed), report.Count(OutcomeFailed)+report.Count(OutcomeSkipped)),
		logging.Int("pruned", len(report.Pruned)),
	)
	return report, nil
}

// precreate ensures each named folder exists under root and returns the names
// that could not be created.
func precreate(root string, names []string) []string {
	var failed []string
	for _, name := range names {
		if err := fileutil.EnsureDir(filepath.Join(root, name)); err != nil {
			failed = append(failed, name)
		}
	}
	return failed
}
