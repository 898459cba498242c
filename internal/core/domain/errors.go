package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRunStoreUnavailable indicates run history is not configured.
	ErrRunStoreUnavailable = errors.New("run store unavailable")

	// Run-level errors. These abort the whole run.

	// ErrDirectoryNotFound indicates the archive directory to scan is missing.
	ErrDirectoryNotFound = fmt.Errorf("archive directory %w", ErrNotFound)

	// ErrDirectoryCreate indicates the producer could not create its target directory.
	ErrDirectoryCreate = errors.New("cannot create archive directory")

	// ErrSinkWrite indicates an output sink could not be written, flushed or closed.
	// Silent data loss defeats the pipeline, so this is always fatal.
	ErrSinkWrite = errors.New("sink write failed")

	// Isolated errors. These are recorded and the run continues.

	// ErrArchiveOpen indicates an archive could not be opened or listed.
	ErrArchiveOpen = errors.New("archive open failed")

	// ErrMemberParse indicates a member document is malformed or misses required fields.
	ErrMemberParse = errors.New("member parse failed")

	// ErrMemberTimeout indicates a member was not read and parsed within the member timeout.
	ErrMemberTimeout = errors.New("member timed out")
)

// ArchiveError records a failure scoped to a single archive.
type ArchiveError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// MemberError records a failure scoped to a single member of an archive.
type MemberError struct {
	Archive string
	Member  string
	Err     error
}

// Error implements the error interface.
func (e *MemberError) Error() string {
	return fmt.Sprintf("archive %s member %s: %v", e.Archive, e.Member, e.Err)
}

// Unwrap returns the underlying error.
func (e *MemberError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must abort the run rather than be recorded.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDirectoryNotFound) ||
		errors.Is(err, ErrDirectoryCreate) ||
		errors.Is(err, ErrSinkWrite)
}
