package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "lookup <guid>",
		Short: "Find where a GUID was most recently placed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			if store == nil {
				return errors.New("history is disabled in the configuration")
			}
			defer store.Close()

			placement, run, err := store.LatestPlacement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if placement == nil {
				return fmt.Errorf("guid %s has never been placed", args[0])
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"guid":        placement.GUID,
					"path":        placement.TargetPath,
					"folder":      placement.Folder,
					"run_id":      run.ID,
					"package":     run.PackagePath,
					"destination": run.Destination,
					"extracted":   run.FinishedAt,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", placement.TargetPath)
			fmt.Fprintf(cmd.OutOrStdout(), "  destination: %s\n", run.Destination)
			fmt.Fprintf(cmd.OutOrStdout(), "  package:     %s\n", run.PackagePath)
			fmt.Fprintf(cmd.OutOrStdout(), "  run:         %s (%s)\n", run.ID, run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the placement as JSON")
	return cmd
}
