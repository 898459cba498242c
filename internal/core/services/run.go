package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

// runTracker collects counters and failures from concurrent units.
type runTracker struct {
	archives       atomic.Int64
	archivesDone   atomic.Int64
	archivesFailed atomic.Int64
	members        atomic.Int64
	membersFailed  atomic.Int64
	levelRows      atomic.Int64
	objectRows     atomic.Int64

	mu       sync.Mutex
	failures []domain.Failure
}

func (t *runTracker) archiveFailed(path string, err error) {
	t.archivesFailed.Add(1)
	t.record(domain.Failure{Kind: domain.FailureArchive, Archive: path, Message: cause(err).Error()})
}

func (t *runTracker) memberFailed(archive, member string, err error) {
	t.membersFailed.Add(1)
	t.record(domain.Failure{Kind: domain.FailureMember, Archive: archive, Member: member, Message: cause(err).Error()})
}

func (t *runTracker) rowsWritten(levels, objects int) {
	t.levelRows.Add(int64(levels))
	t.objectRows.Add(int64(objects))
}

func (t *runTracker) record(f domain.Failure) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, f)
}

// status returns a progress snapshot.
func (t *runTracker) status() driving.ProcessStatus {
	failed := t.archivesFailed.Load() + t.membersFailed.Load()
	return driving.ProcessStatus{
		Running:          true,
		ArchivesDone:     int(t.archivesDone.Load()),
		ArchivesTotal:    int(t.archives.Load()),
		MembersProcessed: int(t.members.Load() - t.membersFailed.Load()),
		ErrorCount:       int(failed),
	}
}

// fill copies the counters and failures into report.
func (t *runTracker) fill(report *domain.RunReport, finished time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	report.Archives = int(t.archives.Load())
	report.ArchivesFailed = int(t.archivesFailed.Load())
	report.Members = int(t.members.Load())
	report.MembersFailed = int(t.membersFailed.Load())
	report.LevelRows = int(t.levelRows.Load())
	report.ObjectRows = int(t.objectRows.Load())
	report.Failures = append([]domain.Failure(nil), t.failures...)
	report.FinishedAt = finished
}

// cause strips the archive/member context already carried by the Failure.
func cause(err error) error {
	var me *domain.MemberError
	if errors.As(err, &me) {
		return me.Err
	}
	var ae *domain.ArchiveError
	if errors.As(err, &ae) {
		return ae.Err
	}
	return err
}
