package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"unitypack/internal/asset"
	"unitypack/internal/history"
	"unitypack/internal/logging"
	"unitypack/internal/unpack"
)

// ExtractOptions carries the per-call extraction parameters.
type ExtractOptions struct {
	// DeleteStaging removes the staging tree after successful placement.
	DeleteStaging bool
	// History, when non-nil, receives a journal entry for the run. Journal
	// failures are logged but never fail an otherwise successful extraction.
	History *history.Store
}

// Result summarizes a completed extraction.
type Result struct {
	RunID       string
	RecordCount int
	Destination string
	Staging     string
	Duration    time.Duration
}

// Extract expands the archive into the staging root, builds and places one
// record per staged entry, and populates the catalog. It runs at most once
// per Package; later calls fail with a state-conflict error. Any failure
// below the cleanup step aborts immediately and leaves the catalog empty;
// files placed before the failure remain on disk.
//
// When staging cleanup is requested and fails, Extract returns both the
// Result and a staging-cleanup error: the destination tree and the catalog
// are complete at that point.
func (p *Package) Extract(ctx context.Context, opts ExtractOptions) (*Result, error) {
	if p.state != stateCreated {
		return nil, unpack.Ef(unpack.KindStateConflict, p.source, "extraction already ran on this catalog")
	}

	started := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(logging.String("run_id", runID))

	if err := os.MkdirAll(filepath.Dir(p.stagingRoot), 0o755); err != nil {
		p.state = stateFailed
		return nil, unpack.E(unpack.KindStagingUnavailable, p.stagingRoot, err)
	}
	lock := flock.New(p.stagingRoot + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		p.state = stateFailed
		return nil, unpack.E(unpack.KindStagingUnavailable, lock.Path(), err)
	}
	if !locked {
		p.state = stateFailed
		return nil, unpack.Ef(unpack.KindStagingUnavailable, p.stagingRoot, "staging root locked by another extraction")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	logger.Info("extracting package",
		logging.String("package", p.source),
		logging.String("staging", p.stagingRoot),
		logging.String("destination", p.destRoot),
	)

	members, err := unpack.Expand(p.source, p.stagingRoot, logger)
	if err != nil {
		p.state = stateFailed
		return nil, err
	}
	logger.Debug("archive expanded", logging.Int("members", members))

	records, err := p.placeAll(logger)
	if err != nil {
		p.state = stateFailed
		return nil, err
	}
	p.records = records
	p.state = stateExtracted

	result := &Result{
		RunID:       runID,
		RecordCount: len(records),
		Destination: p.destRoot,
		Staging:     p.stagingRoot,
		Duration:    time.Since(started),
	}
	logger.Info("package extracted",
		logging.Int("records", result.RecordCount),
		logging.Duration("duration", result.Duration),
	)

	if opts.History != nil {
		if err := p.journal(ctx, opts.History, runID, started); err != nil {
			logger.Warn("failed to record extraction history", logging.Error(err))
		}
	}

	if opts.DeleteStaging {
		if err := os.RemoveAll(p.stagingRoot); err != nil {
			logger.Warn("failed to remove staging directory", logging.Error(err))
			return result, unpack.E(unpack.KindStagingCleanup, p.stagingRoot, err)
		}
	}

	return result, nil
}

// placeAll builds and places a record for every staging subdirectory. The
// records map is returned only when every entry succeeded, so a failure
// leaves the catalog with nothing from this run.
func (p *Package) placeAll(logger *slog.Logger) (map[string]*asset.Record, error) {
	entries, err := os.ReadDir(p.stagingRoot)
	if err != nil {
		return nil, unpack.E(unpack.KindStagingUnavailable, p.stagingRoot, err)
	}

	records := make(map[string]*asset.Record, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			// Some packages ship loose top-level files (preview icons);
			// they carry no sidecars and are not assets.
			logger.Debug("skipping non-directory staging entry", logging.String("name", entry.Name()))
			continue
		}

		rec, err := asset.NewRecord(filepath.Join(p.stagingRoot, entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := rec.Place(p.destRoot); err != nil {
			return nil, err
		}
		if prev, exists := records[rec.GUID()]; exists {
			logger.Warn("duplicate GUID in package, keeping last entry",
				logging.String("guid", rec.GUID()),
				logging.String("previous_path", prev.TargetPath()),
				logging.String("path", rec.TargetPath()),
			)
		}
		records[rec.GUID()] = rec
		logger.Debug("placed asset",
			logging.String("guid", rec.GUID()),
			logging.String("path", rec.TargetPath()),
			logging.Bool("folder", rec.IsFolder()),
		)
	}
	return records, nil
}

func (p *Package) journal(ctx context.Context, store *history.Store, runID string, started time.Time) error {
	placements := make([]history.Placement, 0, len(p.records))
	for _, rec := range p.Records() {
		placements = append(placements, history.Placement{
			RunID:      runID,
			GUID:       rec.GUID(),
			TargetPath: rec.TargetPath(),
			Folder:     rec.IsFolder(),
		})
	}
	run := history.Run{
		ID:          runID,
		PackagePath: p.source,
		Destination: p.destRoot,
		Staging:     p.stagingRoot,
		RecordCount: len(placements),
		StartedAt:   started,
		FinishedAt:  time.Now(),
	}
	return store.RecordRun(ctx, run, placements)
}
