package unpack

import (
	"archive/tar"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Expand streams the gzip-compressed tar archive at packagePath into
// stagingRoot. Each top-level archive entry becomes a subdirectory of
// stagingRoot named by its GUID, holding the asset, asset.meta, and pathname
// members as ordinary files. The staging root is created if missing.
func Expand(packagePath, stagingRoot string, logger *slog.Logger) (int, error) {
	file, err := os.Open(packagePath)
	if err != nil {
		return 0, E(KindPackageNotFound, packagePath, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return 0, E(KindCorruptPackage, packagePath, err)
	}
	defer gz.Close()

	if err := os.MkdirAll(stagingRoot, 0o755); err != nil {
		return 0, E(KindStagingUnavailable, stagingRoot, err)
	}

	entries := 0
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return entries, E(KindCorruptPackage, packagePath, err)
		}

		target, err := joinInsideRoot(stagingRoot, header.Name)
		if err != nil {
			return entries, err
		}
		if target == "" {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return entries, E(KindStagingUnavailable, target, err)
			}
		case tar.TypeReg:
			if err := writeMember(target, reader); err != nil {
				return entries, err
			}
			entries++
			if logger != nil {
				logger.Debug("staged archive member",
					slog.String("member", header.Name),
					slog.Int64("size", header.Size),
				)
			}
		default:
			// Symlinks and device nodes are never package members.
			if logger != nil {
				logger.Warn("skipping unsupported archive member",
					slog.String("member", header.Name),
					slog.Int("type", int(header.Typeflag)),
				)
			}
		}
	}
	return entries, nil
}

// joinInsideRoot resolves an archive member name against root, rejecting
// names that would land outside it. An empty result means the member is the
// root itself and needs no action.
func joinInsideRoot(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || clean == string(filepath.Separator) {
		return "", nil
	}
	if filepath.IsAbs(clean) {
		return "", Ef(KindInvalidPath, name, "absolute member name")
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", Ef(KindInvalidPath, name, "member name escapes staging root")
	}
	return filepath.Join(root, clean), nil
}

func writeMember(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return E(KindStagingUnavailable, filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return E(KindStagingUnavailable, target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return E(KindCorruptPackage, target, err)
	}
	if err := out.Close(); err != nil {
		return E(KindCorruptPackage, target, err)
	}
	return nil
}
