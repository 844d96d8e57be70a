package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unitypack/internal/catalog"
	"unitypack/internal/unpack"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var stagingDir string
	var keepStaging bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "extract <package>",
		Short: "Unpack a package into its original folder hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			pkg, err := catalog.New(args[0], catalog.Options{
				OutputDir:  firstNonEmpty(outputDir, cfg.Paths.OutputDir),
				StagingDir: firstNonEmpty(stagingDir, cfg.Paths.StagingDir),
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			result, err := pkg.Extract(cmd.Context(), catalog.ExtractOptions{
				DeleteStaging: cfg.Extract.DeleteStaging && !keepStaging,
				History:       store,
			})
			if err != nil && !unpack.IsKind(err, unpack.KindStagingCleanup) {
				return err
			}
			cleanupErr := err

			if jsonOut {
				if err := writeJSON(cmd, map[string]any{
					"run_id":      result.RunID,
					"records":     result.RecordCount,
					"destination": result.Destination,
					"staging":     result.Staging,
					"duration_ms": result.Duration.Milliseconds(),
				}); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d assets to %s (run %s)\n",
					result.RecordCount, result.Destination, result.RunID)
			}

			if cleanupErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", cleanupErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Destination directory (default: ./<package name>)")
	cmd.Flags().StringVar(&stagingDir, "staging", "", "Staging directory (default: ./tmp)")
	cmd.Flags().BoolVar(&keepStaging, "keep-staging", false, "Keep the staging directory after extraction")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}
