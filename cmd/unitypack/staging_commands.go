package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"unitypack/internal/config"
	"unitypack/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect and prune leftover staging entries",
	}
	cmd.AddCommand(newStagingListCommand(ctx))
	cmd.AddCommand(newStagingCleanCommand(ctx))
	return cmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staging entries with size and age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := stagingRoot(cfg)
			if err != nil {
				return err
			}

			entries, err := staging.ListEntries(root)
			if err != nil {
				return fmt.Errorf("list staging entries: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No staging entries under %s\n", root)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Name,
					formatSize(entry.Size),
					formatAge(time.Since(entry.ModTime)),
				})
			}
			printTable(cmd,
				[]string{"ENTRY", "SIZE", "AGE"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			)
			return nil
		},
	}
}

func newStagingCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove staging entries older than a threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := stagingRoot(cfg)
			if err != nil {
				return err
			}

			result := staging.CleanStale(root, olderThan, logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d staging entries\n", len(result.Removed))
			if len(result.Errors) > 0 {
				for _, cleanupErr := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", cleanupErr.Path, cleanupErr.Error)
				}
				return fmt.Errorf("%d staging entries could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "Remove entries older than this duration")
	return cmd
}

// stagingRoot resolves the configured staging directory, mirroring the
// catalog's working-directory default.
func stagingRoot(cfg *config.Config) (string, error) {
	if cfg.Paths.StagingDir != "" {
		return cfg.Paths.StagingDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(wd, "tmp"), nil
}
