package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sortbox/internal/category"
	"sortbox/internal/config"
	"sortbox/internal/datebucket"
	"sortbox/internal/journal"
	"sortbox/internal/logging"
	"sortbox/internal/organizer"
	"sortbox/internal/runlock"
	"sortbox/internal/services"
)

const maxListedFailures = 20

type organizeFlags struct {
	recursive  bool
	prune      bool
	dateSource string
	collision  string
	noProgress bool
	json       bool
}

type organizeResult struct {
	RunID           string `json:"run_id,omitempty"`
	JournalFailures int    `json:"journal_failures,omitempty"`
	*organizer.Report
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize [root]",
		Short: "Sort files into year/month/week/category folders",
		Long: `Sort every file in root into root/<year>/<month>/Week-<NN>/<category>.

Files whose name matches a file already in the target folder, ignoring
"(N)" counters, go to root/duplicates instead. Files with no matching rule
go to the dated "others" folder. Root defaults to organize.root from the
configuration or SORTBOX_ROOT.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			opts, err := buildOrganizeOptions(cmd, cfg, flags, args)
			if err != nil {
				return err
			}
			return runOrganize(cmd, cfg, opts, flags, logger)
		},
	}

	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&flags.prune, "prune", false, "Remove directories left empty afterwards")
	cmd.Flags().StringVar(&flags.dateSource, "date-source", "", "Timestamp for date folders: mtime or exif")
	cmd.Flags().StringVar(&flags.collision, "collision", "", "Same-named files in duplicates: rename, skip or overwrite")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress indicator")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Print the run report as JSON")
	return cmd
}

func buildOrganizeOptions(cmd *cobra.Command, cfg *config.Config, flags organizeFlags, args []string) (organizer.Options, error) {
	root := cfg.Organize.Root
	if len(args) == 1 {
		expanded, err := config.ExpandPath(strings.TrimSpace(args[0]))
		if err != nil {
			return organizer.Options{}, fmt.Errorf("resolve root: %w", err)
		}
		root = expanded
	}
	if root == "" {
		return organizer.Options{}, services.Wrap(services.ErrValidation, "cli", "organize",
			"no root given; pass a directory or set organize.root", nil)
	}

	opts := organizer.Options{
		Root:             root,
		Recursive:        cfg.Organize.Recursive,
		PruneEmptyDirs:   cfg.Organize.PruneEmptyDirs,
		PrecreateFolders: cfg.Organize.PrecreateFolders,
	}
	if cmd.Flags().Changed("recursive") {
		opts.Recursive = flags.recursive
	}
	if cmd.Flags().Changed("prune") {
		opts.PruneEmptyDirs = flags.prune
	}

	dateSource := cfg.Organize.DateSource
	if cmd.Flags().Changed("date-source") {
		dateSource = flags.dateSource
	}
	source, err := datebucket.ParseSource(dateSource)
	if err != nil {
		return organizer.Options{}, services.Wrap(services.ErrValidation, "cli", "organize", "date source", err)
	}
	opts.DateSource = source

	collision := cfg.Organize.Collision
	if cmd.Flags().Changed("collision") {
		collision = flags.collision
	}
	policy, err := organizer.ParseCollisionPolicy(collision)
	if err != nil {
		return organizer.Options{}, services.Wrap(services.ErrValidation, "cli", "organize", "collision", err)
	}
	opts.Collision = policy

	loc, err := cfg.Location()
	if err != nil {
		return organizer.Options{}, services.Wrap(services.ErrConfiguration, "cli", "organize", "timezone", err)
	}
	opts.Location = loc

	resolver, err := category.NewResolver(cfg.CategoryRules())
	if err != nil {
		return organizer.Options{}, services.Wrap(services.ErrConfiguration, "cli", "organize", "category rules", err)
	}
	opts.Resolver = resolver
	return opts, nil
}

func runOrganize(cmd *cobra.Command, cfg *config.Config, opts organizer.Options, flags organizeFlags, logger *slog.Logger) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock, err := runlock.Acquire(cfg.Paths.StateDir, opts.Root)
	if err != nil {
		return err
	}
	logger.Debug("run lock acquired", logging.String("lock_path", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Debug("run lock release failed", logging.Error(err))
		}
	}()

	var (
		runID    string
		store    *journal.Store
		recorder *journal.Recorder
	)
	if cfg.Journal.Enabled {
		store, runID, recorder = openJournal(runCtx, cfg, opts, logger)
		if store != nil {
			defer store.Close()
		}
	}
	runCtx = services.WithRunID(runCtx, runID)

	var progress *progressNotifier
	if !flags.noProgress && !flags.json && isTerminal(os.Stderr) {
		progress = newProgressNotifier()
	}

	notifiers := []organizer.Notifier{}
	if recorder != nil {
		notifiers = append(notifiers, recorder)
	}
	if progress != nil {
		notifiers = append(notifiers, progress)
	}
	opts.Notifier = organizer.MultiNotifier(notifiers...)
	opts.Logger = logger

	report, runErr := organizer.Organize(runCtx, opts)
	if progress != nil {
		progress.finish()
	}

	if store != nil && runID != "" {
		summary := journal.SummaryFromReport(report, runErr)
		if err := store.FinishRun(context.WithoutCancel(runCtx), runID, summary); err != nil {
			logging.WarnWithContext(logger, "journal run not closed", "journal_finish_failed",
				logging.String(logging.FieldRunID, runID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run shows as unfinished in history"),
			)
		}
	}

	// A canceled run still prints what it completed.
	if runErr != nil && !errors.Is(runErr, services.ErrCanceled) {
		return runErr
	}

	journalFailures := 0
	if recorder != nil {
		journalFailures = recorder.Failed()
	}
	if flags.json {
		result := organizeResult{RunID: runID, JournalFailures: journalFailures, Report: report}
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printOrganizeSummary(cmd.OutOrStdout(), report, runID, journalFailures)
	}

	if runErr != nil {
		return runErr
	}
	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d %s could not be organized", n, plural(n, "file", "files"))
	}
	return nil
}

func openJournal(ctx context.Context, cfg *config.Config, opts organizer.Options, logger *slog.Logger) (*journal.Store, string, *journal.Recorder) {
	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logging.WarnWithContext(logger, "journal unavailable", "journal_open_failed",
			logging.String("path", cfg.JournalPath()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory or disable [journal]"),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		return nil, "", nil
	}
	runID, err := store.BeginRun(ctx, opts.Root, opts.Recursive)
	if err != nil {
		logging.WarnWithContext(logger, "journal run not started", "journal_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded"),
		)
		return store, "", nil
	}
	ctx = services.WithRunID(ctx, runID)
	return store, runID, journal.NewRecorder(ctx, store, runID, logger)
}

func printOrganizeSummary(out io.Writer, report *organizer.Report, runID string, journalFailures int) {
	if report == nil {
		return
	}
	rows := [][]string{
		{"Placed", strconv.Itoa(report.Count(organizer.OutcomePlaced))},
		{"Others", strconv.Itoa(report.Count(organizer.OutcomeOthers))},
		{"Duplicates", strconv.Itoa(report.Count(organizer.OutcomeDuplicate))},
		{"Already in place", strconv.Itoa(report.Count(organizer.OutcomeInPlace))},
		{"Skipped", strconv.Itoa(report.Count(organizer.OutcomeSkipped))},
		{"Failed", strconv.Itoa(report.Count(organizer.OutcomeFailed))},
		{"Moved", humanize.IBytes(uint64(report.BytesMoved()))},
		{"Directories pruned", strconv.Itoa(len(report.Pruned))},
		{"Elapsed", report.Elapsed().Round(time.Millisecond).String()},
	}
	fmt.Fprintf(out, "Organized %s\n", report.Root)
	fmt.Fprintln(out, renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	if runID != "" {
		fmt.Fprintf(out, "Journal run: %s\n", runID)
	}
	if journalFailures > 0 {
		fmt.Fprintf(out, "Journal incomplete: %d %s not recorded\n", journalFailures, plural(journalFailures, "move", "moves"))
	}

	if len(report.Failures) == 0 {
		return
	}
	failRows := make([][]string, 0, min(len(report.Failures), maxListedFailures))
	for i, f := range report.Failures {
		if i == maxListedFailures {
			break
		}
		failRows = append(failRows, []string{f.Op, f.Path, errorText(f.Err)})
	}
	fmt.Fprintln(out, renderTable([]string{"Op", "Path", "Error"}, failRows, nil))
	if extra := len(report.Failures) - maxListedFailures; extra > 0 {
		fmt.Fprintf(out, "... and %d more\n", extra)
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
