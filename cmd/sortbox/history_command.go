package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sortbox/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List journaled organize runs, or the moves of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.JournalPath()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(out, "No journal at %s. Set [journal] enabled = true to record runs.\n", path)
				return nil
			}
			store, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return showRun(cmd, store, args[0], jsonOut)
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "interrupted"
				if !run.Finished().IsZero() {
					finished = run.Finished().Sub(run.Started()).Round(time.Millisecond).String()
				}
				rows = append(rows, []string{
					run.ID[:8],
					run.Started().Local().Format("2006-01-02 15:04:05"),
					run.Root,
					yesNo(run.Recursive),
					strconv.Itoa(run.Files),
					strconv.Itoa(run.Moved),
					strconv.Itoa(run.Failed),
					humanize.IBytes(uint64(run.BytesMoved)),
					finished,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Root", "Recursive", "Files", "Moved", "Failed", "Bytes", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func showRun(cmd *cobra.Command, store *journal.Store, id string, jsonOut bool) error {
	run, err := store.Run(cmd.Context(), id)
	if err != nil {
		return err
	}
	moves, err := store.Moves(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(cmd, struct {
			Run   *journal.Run   `json:"run"`
			Moves []journal.Move `json:"moves"`
		}{run, moves})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s on %s (%s)\n", run.ID, run.Root, run.Started().Local().Format("2006-01-02 15:04:05"))
	if run.Error != "" {
		fmt.Fprintf(out, "Errors: %s\n", run.Error)
	}
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		target := m.Destination
		if m.Error != "" {
			target = m.Error
		}
		rows = append(rows, []string{m.Outcome, m.Source, target})
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Source", "Destination"}, rows, nil))
	return nil
}
