package unpack

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an extraction failure. The set is closed: every error
// produced by this module carries exactly one of these values so callers can
// branch on the failure mode instead of parsing message text.
type Kind string

const (
	// KindPackageNotFound marks a source archive that cannot be opened.
	KindPackageNotFound Kind = "package_not_found"
	// KindNotAPackage marks a source path with no usable file name.
	KindNotAPackage Kind = "not_a_package"
	// KindCorruptPackage marks decompression or archive-listing failures.
	KindCorruptPackage Kind = "corrupt_package"
	// KindCorruptEntry marks an unreadable pathname sidecar or a failed
	// payload/metadata move for a single entry.
	KindCorruptEntry Kind = "corrupt_entry"
	// KindStagingUnavailable marks a staging root that cannot be created,
	// listed, or locked.
	KindStagingUnavailable Kind = "staging_directory_unavailable"
	// KindTargetUnavailable marks a destination parent directory that cannot
	// be created or does not exist as a concept (target is a root).
	KindTargetUnavailable Kind = "target_directory_unavailable"
	// KindMetadataUnreadable marks an asset.meta sidecar that cannot be read.
	KindMetadataUnreadable Kind = "metadata_unreadable"
	// KindInvalidPath marks an entry name or derived path that cannot be
	// interpreted: no final segment, absolute, or escaping its root.
	KindInvalidPath Kind = "invalid_path"
	// KindWorkingDirectory marks a failed default-directory resolution.
	KindWorkingDirectory Kind = "working_directory_resolution_failed"
	// KindStagingCleanup marks a failed post-extraction staging removal. The
	// destination tree is complete when this is reported.
	KindStagingCleanup Kind = "staging_cleanup_failed"
	// KindStateConflict marks a second extraction attempt on a catalog that
	// already ran.
	KindStateConflict Kind = "state_conflict"
)

// Error is the failure value shared by the record, placer, and catalog
// layers. Path names the offending file or directory; Err carries the
// underlying I/O cause when one exists.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an extraction error of the given kind.
func E(kind Kind, path string, err error) error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Ef builds an extraction error whose cause is a formatted message.
func Ef(kind Kind, path, format string, args ...any) error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind carried by err, or false when err did not come out
// of this module.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// PathOf reports the offending path recorded on err, if any.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}
