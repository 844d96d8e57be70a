package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"unitypack/internal/asset"
	"unitypack/internal/unpack"
)

// inspectEntry is the JSON shape of one listed package entry.
type inspectEntry struct {
	GUID   string `json:"guid"`
	Path   string `json:"path"`
	Folder bool   `json:"folder"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <package>",
		Short: "List a package's contents without placing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			scratch, err := os.MkdirTemp("", "unitypack-inspect-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(scratch)

			if _, err := unpack.Expand(args[0], scratch, logger); err != nil {
				return err
			}

			dirs, err := os.ReadDir(scratch)
			if err != nil {
				return unpack.E(unpack.KindStagingUnavailable, scratch, err)
			}

			entries := make([]inspectEntry, 0, len(dirs))
			for _, dir := range dirs {
				if !dir.IsDir() {
					continue
				}
				rec, err := asset.NewRecord(filepath.Join(scratch, dir.Name()))
				if err != nil {
					return err
				}
				entries = append(entries, inspectEntry{
					GUID:   rec.GUID(),
					Path:   rec.TargetPath(),
					Folder: rec.IsFolder(),
				})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

			if jsonOut {
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				kind := "file"
				if entry.Folder {
					kind = "folder"
				}
				rows = append(rows, []string{entry.GUID, entry.Path, kind})
			}
			printTable(cmd, []string{"GUID", "PATH", "KIND"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print entries as JSON")
	return cmd
}
