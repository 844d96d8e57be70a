package unpack

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := E(KindCorruptEntry, "/staging/abc/pathname", fs.ErrNotExist)
	msg := err.Error()
	if !strings.Contains(msg, "corrupt_entry") {
		t.Fatalf("expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "/staging/abc/pathname") {
		t.Fatalf("expected path in message, got %q", msg)
	}
}

func TestKindOf(t *testing.T) {
	err := E(KindMetadataUnreadable, "/staging/abc/asset.meta", fs.ErrPermission)

	kind, ok := KindOf(err)
	if !ok || kind != KindMetadataUnreadable {
		t.Fatalf("KindOf = %q, %v", kind, ok)
	}
	if !IsKind(err, KindMetadataUnreadable) {
		t.Fatal("IsKind should match the carried kind")
	}
	if IsKind(err, KindCorruptEntry) {
		t.Fatal("IsKind should not match a different kind")
	}
}

func TestKindOfWrappedError(t *testing.T) {
	inner := E(KindInvalidPath, "bad", nil)
	wrapped := fmt.Errorf("extract: %w", inner)

	if !IsKind(wrapped, KindInvalidPath) {
		t.Fatal("kind should survive wrapping")
	}
	if PathOf(wrapped) != "bad" {
		t.Fatalf("PathOf = %q, want %q", PathOf(wrapped), "bad")
	}
}

func TestKindOfForeignError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("plain errors carry no kind")
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	err := E(KindPackageNotFound, "/missing.unitypackage", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("underlying cause should be reachable via errors.Is")
	}
}
