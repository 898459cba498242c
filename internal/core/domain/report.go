package domain

import "time"

// FailureKind classifies a recorded, non-fatal failure.
type FailureKind string

// Failure kinds.
const (
	// FailureArchive means a whole archive was abandoned.
	FailureArchive FailureKind = "archive"

	// FailureMember means a single member was skipped.
	FailureMember FailureKind = "member"
)

// Failure is one recorded, non-fatal failure.
type Failure struct {
	Kind    FailureKind
	Archive string
	// Member is empty for archive failures.
	Member  string
	Message string
}

// RunReport summarises one processing run.
// Partial failures leave a complete run with fewer rows than the theoretical
// maximum; the report is how operators detect that.
type RunReport struct {
	// ID is the unique identifier for the run.
	ID string

	// Dir is the scanned archive directory.
	Dir string

	// LevelsPath and ObjectsPath are the sink files written.
	LevelsPath  string
	ObjectsPath string

	// Archives is the number of directory entries dispatched.
	Archives int

	// ArchivesFailed is the number of archives that could not be opened.
	ArchivesFailed int

	// Members is the number of members dispatched.
	Members int

	// MembersFailed is the number of members skipped.
	MembersFailed int

	// LevelRows and ObjectRows count rows appended to each sink.
	LevelRows  int
	ObjectRows int

	// Failures lists every recorded failure.
	Failures []Failure

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Degraded reports whether any archive or member was skipped.
func (r *RunReport) Degraded() bool {
	return r.ArchivesFailed > 0 || r.MembersFailed > 0
}

// DocumentsParsed returns the number of members that produced rows.
func (r *RunReport) DocumentsParsed() int {
	return r.Members - r.MembersFailed
}
