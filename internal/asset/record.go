package asset

import (
	"os"
	"path/filepath"
	"strings"

	"unitypack/internal/unpack"
)

// Member names inside each GUID staging directory. These are fixed by the
// package format.
const (
	payloadMember  = "asset"
	metadataMember = "asset.meta"
	pathnameMember = "pathname"
)

// folderMarker is the metadata line that flags a virtual directory entry.
const folderMarker = "folderAsset: yes"

// MetaSuffix is appended to the full placed file name, extension included,
// when the metadata sidecar is moved next to its asset.
const MetaSuffix = ".unitymeta"

// Record describes one staged entry. It is immutable after construction;
// Place consumes the staging files it points at, after which PayloadPath and
// MetadataPath refer to locations that no longer exist.
type Record struct {
	guid         string
	payloadPath  string
	metadataPath string
	target       string
	isFolder     bool
}

// NewRecord interprets the staging subdirectory at dir, whose base name is
// the entry's GUID. It reads the pathname and asset.meta sidecars; nothing
// is written or moved.
func NewRecord(dir string) (*Record, error) {
	guid := filepath.Base(filepath.Clean(dir))
	if guid == "." || guid == ".." || guid == string(filepath.Separator) || guid == "" {
		return nil, unpack.Ef(unpack.KindInvalidPath, dir, "staging entry has no usable name")
	}

	rec := &Record{
		guid:         guid,
		payloadPath:  filepath.Join(dir, payloadMember),
		metadataPath: filepath.Join(dir, metadataMember),
	}

	target, err := readTargetPath(filepath.Join(dir, pathnameMember))
	if err != nil {
		return nil, err
	}
	rec.target = target

	meta, err := os.ReadFile(rec.metadataPath)
	if err != nil {
		return nil, unpack.E(unpack.KindMetadataUnreadable, rec.metadataPath, err)
	}
	rec.isFolder = strings.Contains(string(meta), folderMarker)

	return rec, nil
}

// GUID returns the entry's opaque identifier.
func (r *Record) GUID() string { return r.guid }

// PayloadPath returns the staging location of the raw asset content.
func (r *Record) PayloadPath() string { return r.payloadPath }

// MetadataPath returns the staging location of the asset.meta sidecar.
func (r *Record) MetadataPath() string { return r.metadataPath }

// TargetPath returns the declared path of the asset relative to the
// destination root, in slash form as the package recorded it.
func (r *Record) TargetPath() string { return r.target }

// IsFolder reports whether the entry is a virtual directory with no payload.
func (r *Record) IsFolder() bool { return r.isFolder }

// readTargetPath extracts the relative destination path from the pathname
// sidecar. Packages terminate the first line with a newline (sometimes
// followed by a padding line), so only the first line counts.
func readTargetPath(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", unpack.E(unpack.KindCorruptEntry, path, err)
	}
	line := string(raw)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return "", unpack.Ef(unpack.KindInvalidPath, path, "empty pathname entry")
	}
	clean := filepath.Clean(filepath.FromSlash(line))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", unpack.Ef(unpack.KindInvalidPath, path, "pathname %q escapes the destination root", line)
	}
	return line, nil
}
