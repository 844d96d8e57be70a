package asset_test

import (
	"os"
	"path/filepath"
	"testing"

	"unitypack/internal/asset"
	"unitypack/internal/testsupport"
	"unitypack/internal/unpack"
)

func TestNewRecord(t *testing.T) {
	staging := t.TempDir()
	guid := "1af567ac160bb164fb19b8cb9b55b34b"
	dir := testsupport.WriteStagingEntry(t, staging, guid, "Assets/Textures/Ground/IMGP1287.jpg", []byte("jpeg bytes"), testsupport.DefaultMeta)

	rec, err := asset.NewRecord(dir)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	if rec.GUID() != guid {
		t.Fatalf("GUID = %q, want %q", rec.GUID(), guid)
	}
	if rec.TargetPath() != "Assets/Textures/Ground/IMGP1287.jpg" {
		t.Fatalf("TargetPath = %q", rec.TargetPath())
	}
	if rec.PayloadPath() != filepath.Join(dir, "asset") {
		t.Fatalf("PayloadPath = %q", rec.PayloadPath())
	}
	if rec.MetadataPath() != filepath.Join(dir, "asset.meta") {
		t.Fatalf("MetadataPath = %q", rec.MetadataPath())
	}
	if rec.IsFolder() {
		t.Fatal("regular asset misread as folder")
	}
}

func TestNewRecordFolderMarker(t *testing.T) {
	staging := t.TempDir()
	dir := testsupport.WriteStagingEntry(t, staging, testsupport.GUIDFor(7), "Assets/Textures", nil, testsupport.FolderMeta)

	rec, err := asset.NewRecord(dir)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if !rec.IsFolder() {
		t.Fatal("folder marker not detected")
	}
}

func TestNewRecordMissingPathname(t *testing.T) {
	staging := t.TempDir()
	dir := filepath.Join(staging, testsupport.GUIDFor(1))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asset.meta"), []byte(testsupport.DefaultMeta), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := asset.NewRecord(dir)
	if !unpack.IsKind(err, unpack.KindCorruptEntry) {
		t.Fatalf("err = %v, want corrupt_entry", err)
	}
}

func TestNewRecordMissingMetadata(t *testing.T) {
	staging := t.TempDir()
	dir := filepath.Join(staging, testsupport.GUIDFor(2))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pathname"), []byte("Assets/a.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := asset.NewRecord(dir)
	if !unpack.IsKind(err, unpack.KindMetadataUnreadable) {
		t.Fatalf("err = %v, want metadata_unreadable", err)
	}
}

func TestNewRecordRootPath(t *testing.T) {
	_, err := asset.NewRecord("/")
	if !unpack.IsKind(err, unpack.KindInvalidPath) {
		t.Fatalf("err = %v, want invalid_path", err)
	}
}

func TestNewRecordRejectsBadTargets(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"empty", ""},
		{"traversal", "../outside.txt"},
		{"absolute", "/etc/passwd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			staging := t.TempDir()
			dir := testsupport.WriteStagingEntry(t, staging, testsupport.GUIDFor(3), tc.target, []byte("x"), testsupport.DefaultMeta)

			_, err := asset.NewRecord(dir)
			if !unpack.IsKind(err, unpack.KindInvalidPath) {
				t.Fatalf("err = %v, want invalid_path", err)
			}
		})
	}
}

func TestNewRecordTrimsTrailingNewline(t *testing.T) {
	staging := t.TempDir()
	dir := filepath.Join(staging, testsupport.GUIDFor(4))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pathname"), []byte("Assets/b.txt\r\n00\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asset.meta"), []byte(testsupport.DefaultMeta), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := asset.NewRecord(dir)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.TargetPath() != "Assets/b.txt" {
		t.Fatalf("TargetPath = %q, want %q", rec.TargetPath(), "Assets/b.txt")
	}
}
