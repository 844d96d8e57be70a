// Package testsupport builds the fixtures shared by extraction tests:
// staged GUID directories and synthetic .unitypackage archives.
package testsupport

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

// DefaultMeta is a minimal asset.meta body for a regular file asset.
const DefaultMeta = "fileFormatVersion: 2\nguid: 0000000000000000000000000000000\nfolderAsset: no\n"

// FolderMeta is a minimal asset.meta body for a folder asset.
const FolderMeta = "fileFormatVersion: 2\nguid: 0000000000000000000000000000000\nfolderAsset: yes\n"

// WriteStagingEntry materializes one staged GUID directory with the three
// sidecar members and returns its path. A nil payload omits the asset
// member, as folder entries do.
func WriteStagingEntry(t *testing.T, stagingRoot, guid, target string, payload []byte, meta string) string {
	t.Helper()

	dir := filepath.Join(stagingRoot, guid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create staging entry %s: %v", guid, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pathname"), []byte(target+"\n"), 0o644); err != nil {
		t.Fatalf("write pathname for %s: %v", guid, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asset.meta"), []byte(meta), 0o644); err != nil {
		t.Fatalf("write asset.meta for %s: %v", guid, err)
	}
	if payload != nil {
		if err := os.WriteFile(filepath.Join(dir, "asset"), payload, 0o644); err != nil {
			t.Fatalf("write asset for %s: %v", guid, err)
		}
	}
	return dir
}

// PackageEntry describes one GUID entry of a synthetic package.
type PackageEntry struct {
	GUID    string
	Target  string
	Payload []byte
	Meta    string
	Folder  bool
}

// BuildPackage writes a gzip-compressed tar archive at path containing the
// given entries in the .unitypackage layout.
func BuildPackage(t *testing.T, path string, entries []PackageEntry) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create package file: %v", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		meta := entry.Meta
		if meta == "" {
			if entry.Folder {
				meta = FolderMeta
			} else {
				meta = DefaultMeta
			}
		}

		writeTarDir(t, tw, entry.GUID+"/")
		writeTarFile(t, tw, entry.GUID+"/pathname", []byte(entry.Target+"\n"))
		writeTarFile(t, tw, entry.GUID+"/asset.meta", []byte(meta))
		if !entry.Folder {
			payload := entry.Payload
			if payload == nil {
				payload = []byte{}
			}
			writeTarFile(t, tw, entry.GUID+"/asset", payload)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close package file: %v", err)
	}
}

func writeTarDir(t *testing.T, tw *tar.Writer, name string) {
	t.Helper()
	err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeDir,
		Mode:     0o755,
		ModTime:  time.Now(),
	})
	if err != nil {
		t.Fatalf("write tar dir %s: %v", name, err)
	}
}

func writeTarFile(t *testing.T, tw *tar.Writer, name string, body []byte) {
	t.Helper()
	err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(body)),
		ModTime:  time.Now(),
	})
	if err != nil {
		t.Fatalf("write tar header %s: %v", name, err)
	}
	if _, err := tw.Write(body); err != nil {
		t.Fatalf("write tar body %s: %v", name, err)
	}
}

// GUIDFor derives a deterministic 32-character hex identifier for tests.
func GUIDFor(i int) string {
	return fmt.Sprintf("%032x", i)
}
