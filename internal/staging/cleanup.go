// Package staging inspects and prunes leftover staging entries: the
// GUID-named directories that survive extractions run with staging deletion
// disabled.
package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"unitypack/internal/logging"
)

// EntryInfo contains metadata about one staging entry.
type EntryInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanResult contains the outcome of a cleanup operation.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// ListEntries returns the directories inside stagingRoot with their
// metadata. A missing staging root yields an empty listing, not an error.
func ListEntries(stagingRoot string) ([]EntryInfo, error) {
	stagingRoot = strings.TrimSpace(stagingRoot)
	if stagingRoot == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(stagingRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []EntryInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(stagingRoot, entry.Name())
		size, _ := dirSize(path)
		out = append(out, EntryInfo{
			Name:    entry.Name(),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	return out, nil
}

// CleanStale removes staging entries older than maxAge and reports what was
// removed along with any per-entry errors.
func CleanStale(stagingRoot string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}

	stagingRoot = strings.TrimSpace(stagingRoot)
	if stagingRoot == "" {
		return result
	}

	entries, err := os.ReadDir(stagingRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: stagingRoot, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(stagingRoot, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove stale staging entry",
					logging.String("path", path),
					logging.Error(err),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale staging entry",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime())),
			)
		}
	}
	return result
}

func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best effort
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
