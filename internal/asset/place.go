package asset

import (
	"os"
	"path/filepath"

	"unitypack/internal/fileutil"
	"unitypack/internal/unpack"
)

// Place moves the record's payload to destRoot joined with its target path,
// creating any missing parent directories, then moves the metadata sidecar
// alongside it under the original file name plus MetaSuffix. Folder records
// are a no-op: the directory itself materializes when the files inside it
// are placed.
//
// Placement consumes the staging files. After a successful call the paths
// returned by PayloadPath and MetadataPath are gone from disk.
func (r *Record) Place(destRoot string) error {
	if r.isFolder {
		return nil
	}

	target := filepath.Join(destRoot, filepath.FromSlash(r.target))
	parent := filepath.Dir(target)
	if parent == target {
		// Only a filesystem root is its own parent; a sane target never is.
		return unpack.Ef(unpack.KindTargetUnavailable, target, "target path has no parent directory")
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return unpack.E(unpack.KindTargetUnavailable, parent, err)
	}

	if err := fileutil.MoveFile(r.payloadPath, target); err != nil {
		return unpack.E(unpack.KindCorruptEntry, r.payloadPath, err)
	}

	metaTarget := filepath.Join(parent, filepath.Base(target)+MetaSuffix)
	if err := fileutil.MoveFile(r.metadataPath, metaTarget); err != nil {
		return unpack.E(unpack.KindCorruptEntry, r.metadataPath, err)
	}
	return nil
}
