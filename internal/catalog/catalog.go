package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"unitypack/internal/asset"
	"unitypack/internal/logging"
	"unitypack/internal/unpack"
)

type state int

const (
	stateCreated state = iota
	stateExtracted
	stateFailed
)

// Package is the catalog for one archive: its resolved paths and, after
// extraction, the records keyed by GUID. A Package runs at most one
// extraction; it is not safe for concurrent use.
type Package struct {
	source      string
	stem        string
	stagingRoot string
	destRoot    string
	records     map[string]*asset.Record
	state       state
	logger      *slog.Logger
}

// Options carries the optional overrides recognized at construction.
type Options struct {
	// OutputDir overrides the destination root. Empty means
	// <working directory>/<package file stem>.
	OutputDir string
	// StagingDir overrides the staging root. Empty means
	// <working directory>/tmp.
	StagingDir string
	Logger     *slog.Logger
}

// New binds a catalog to the package at packagePath and resolves its staging
// and destination roots exactly once. A relative path that does not exist as
// given is retried under the working directory, so a bare file name works
// from anywhere.
func New(packagePath string, opts Options) (*Package, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "catalog"))

	source := packagePath
	if _, err := os.Stat(source); err != nil && !filepath.IsAbs(source) {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, unpack.E(unpack.KindWorkingDirectory, packagePath, wdErr)
		}
		source = filepath.Join(wd, packagePath)
	}
	source, err := filepath.Abs(source)
	if err != nil {
		return nil, unpack.E(unpack.KindInvalidPath, packagePath, err)
	}

	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return nil, unpack.Ef(unpack.KindNotAPackage, source, "cannot derive a package name")
	}

	stagingRoot, err := resolveDir(opts.StagingDir, "tmp")
	if err != nil {
		return nil, err
	}
	destRoot, err := resolveDir(opts.OutputDir, stem)
	if err != nil {
		return nil, err
	}

	return &Package{
		source:      source,
		stem:        stem,
		stagingRoot: stagingRoot,
		destRoot:    destRoot,
		records:     map[string]*asset.Record{},
		logger:      logger,
	}, nil
}

// resolveDir makes override absolute, or joins fallback onto the working
// directory when no override was given.
func resolveDir(override, fallback string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", unpack.E(unpack.KindInvalidPath, override, err)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", unpack.E(unpack.KindWorkingDirectory, "", err)
	}
	return filepath.Join(wd, fallback), nil
}

// Source returns the absolute path of the package archive.
func (p *Package) Source() string { return p.source }

// Stem returns the package file name without its extension.
func (p *Package) Stem() string { return p.stem }

// StagingRoot returns the resolved staging directory.
func (p *Package) StagingRoot() string { return p.stagingRoot }

// DestinationRoot returns the resolved destination directory.
func (p *Package) DestinationRoot() string { return p.destRoot }

// Lookup returns the record for guid. Absence is a normal outcome, reported
// through ok, never an error.
func (p *Package) Lookup(guid string) (*asset.Record, bool) {
	rec, ok := p.records[guid]
	return rec, ok
}

// Records returns all records sorted by target path.
func (p *Package) Records() []*asset.Record {
	out := make([]*asset.Record, 0, len(p.records))
	for _, rec := range p.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetPath() < out[j].TargetPath() })
	return out
}

// Len returns the number of cataloged records.
func (p *Package) Len() int { return len(p.records) }
