package driving

import (
	"context"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// ArchiveProcessor extracts Levels and Objects rows from a directory of archives.
type ArchiveProcessor interface {
	// Process scans dir, processes every entry as an archive and blocks until
	// all of them are done. Per-archive and per-member failures are recorded
	// in the report; only fatal errors are returned.
	Process(ctx context.Context, dir string) (*domain.RunReport, error)

	// Status returns progress of the run in flight.
	Status() ProcessStatus
}

// ProcessStatus represents the current state of a processing run.
type ProcessStatus struct {
	// Running indicates if a run is in progress.
	Running bool

	// ArchivesDone is the number of archives finished or abandoned.
	ArchivesDone int

	// ArchivesTotal is the number of archives dispatched.
	ArchivesTotal int

	// MembersProcessed is the number of members that produced rows.
	MembersProcessed int

	// ErrorCount is the number of recorded failures.
	ErrorCount int
}
