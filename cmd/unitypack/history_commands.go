package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"unitypack/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past extraction runs",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List extraction runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, runs)
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.PackagePath,
					strconv.Itoa(run.RecordCount),
					run.FinishedAt.Local().Format("2006-01-02 15:04:05"),
					run.Destination,
				})
			}
			printTable(cmd,
				[]string{"RUN", "PACKAGE", "RECORDS", "FINISHED", "DESTINATION"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and everything it placed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run with id %s", args[0])
			}
			placements, err := store.Placements(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"run":        run,
					"placements": placements,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:         %s\n", run.ID)
			fmt.Fprintf(out, "Package:     %s\n", run.PackagePath)
			fmt.Fprintf(out, "Destination: %s\n", run.Destination)
			fmt.Fprintf(out, "Records:     %d\n", run.RecordCount)
			fmt.Fprintf(out, "Finished:    %s\n\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))

			rows := make([][]string, 0, len(placements))
			for _, p := range placements {
				kind := "file"
				if p.Folder {
					kind = "folder"
				}
				rows = append(rows, []string{p.GUID, p.TargetPath, kind})
			}
			printTable(cmd, []string{"GUID", "PATH", "KIND"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run as JSON")
	return cmd
}

func requireHistory(ctx *commandContext) (*history.Store, error) {
	store, err := ctx.openHistory()
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	if store == nil {
		return nil, errors.New("history is disabled in the configuration")
	}
	return store, nil
}
