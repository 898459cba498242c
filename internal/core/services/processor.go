package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
	"github.com/custodia-labs/xmlzip/internal/logger"
)

// Ensure ArchiveProcessor implements the interface.
var _ driving.ArchiveProcessor = (*ArchiveProcessor)(nil)

// ArchiveProcessor scans a directory of archives and extracts every member
// into the Levels and Objects sinks.
//
// Every archive gets its own goroutine. Within an archive at most
// settings.Workers members are in flight, dispatched by settings.Scheduler.
// The two sinks are the only shared mutable state; each serialises its own
// appends.
type ArchiveProcessor struct {
	reader    driven.ArchiveReader
	extractor driven.Extractor
	sinks     driven.SinkFactory
	runs      driven.RunStore
	settings  domain.Settings
	limiter   *rate.Limiter

	mu     sync.RWMutex
	active *runTracker
}

// NewArchiveProcessor creates a processor.
// The runs store is optional - if nil, reports are not persisted.
func NewArchiveProcessor(
	reader driven.ArchiveReader,
	extractor driven.Extractor,
	sinks driven.SinkFactory,
	runs driven.RunStore,
	settings domain.Settings,
) *ArchiveProcessor {
	p := &ArchiveProcessor{
		reader:    reader,
		extractor: extractor,
		sinks:     sinks,
		runs:      runs,
		settings:  settings,
	}
	if settings.ArchiveRate > 0 {
		burst := max(1, int(settings.ArchiveRate))
		p.limiter = rate.NewLimiter(rate.Limit(settings.ArchiveRate), burst)
	}
	return p
}

// outputs holds the two shared sinks of one run.
type outputs struct {
	levels  driven.RecordSink
	objects driven.RecordSink
}

// Process scans dir and processes every entry as an archive.
// It blocks until all archives are done.
func (p *ArchiveProcessor) Process(ctx context.Context, dir string) (*domain.RunReport, error) {
	paths, err := p.reader.List(dir)
	if err != nil {
		return nil, err
	}

	settings := p.settings
	settings.ArchiveDir = dir
	report := &domain.RunReport{
		ID:          uuid.NewString(),
		Dir:         dir,
		LevelsPath:  settings.LevelsPath(),
		ObjectsPath: settings.ObjectsPath(),
		StartedAt:   time.Now(),
	}

	out, err := p.openOutputs(report.LevelsPath, report.ObjectsPath)
	if err != nil {
		return nil, err
	}

	tracker := &runTracker{}
	p.setActive(tracker)
	defer p.setActive(nil)

	logger.Section("Process")
	logger.Info("Scanning archives", "dir", dir, "archives", len(paths),
		"workers", p.settings.Workers, "scheduler", p.settings.Scheduler, "extraction", p.extractor.Mode())

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		tracker.archives.Add(1)
		g.Go(func() error {
			defer tracker.archivesDone.Add(1)
			return p.processArchive(gctx, path, out, tracker)
		})
	}
	runErr := g.Wait()

	if err := out.close(); err != nil && runErr == nil {
		runErr = err
	}

	// An aborted run keeps a zero FinishedAt.
	finished := time.Now()
	if runErr != nil {
		finished = time.Time{}
	}
	tracker.fill(report, finished)
	p.saveRun(ctx, report)

	if runErr != nil {
		logger.Error("Run aborted", "dir", dir, "error", runErr)
		return report, runErr
	}

	if report.Degraded() {
		logger.Warn("Run completed with skipped data", "archives_failed", report.ArchivesFailed,
			"members_failed", report.MembersFailed)
	}
	logger.Info("Run complete", "level_rows", report.LevelRows, "object_rows", report.ObjectRows,
		"duration", report.Duration())
	return report, nil
}

// Status returns progress of the run in flight.
func (p *ArchiveProcessor) Status() driving.ProcessStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.active == nil {
		return driving.ProcessStatus{}
	}
	return p.active.status()
}

// processArchive processes one archive to completion.
// Only fatal errors and cancellation are returned.
func (p *ArchiveProcessor) processArchive(ctx context.Context, path string, out outputs, tracker *runTracker) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}
	}

	archive, err := p.reader.Open(path)
	if err != nil {
		if !errors.Is(err, domain.ErrArchiveOpen) {
			err = fmt.Errorf("%w: %w", domain.ErrArchiveOpen, err)
		}
		archErr := &domain.ArchiveError{Path: path, Err: err}
		tracker.archiveFailed(path, archErr)
		logger.Error("Archive abandoned", "archive", path, "error", err)
		return nil
	}
	defer archive.Close()

	members := archive.Members()
	logger.Debug("Processing archive", "archive", path, "members", len(members))

	d := newDispatcher(p.settings.Scheduler, p.settings.Workers)
	return d.dispatch(ctx, members, func(ctx context.Context, name string) error {
		return p.processMember(ctx, archive, name, out, tracker)
	})
}

// processMember extracts one member and appends its rows.
func (p *ArchiveProcessor) processMember(
	ctx context.Context,
	archive driven.Archive,
	name string,
	out outputs,
	tracker *runTracker,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := p.extract(ctx, archive, name)
	if err != nil && ctx.Err() != nil && !errors.Is(err, domain.ErrMemberTimeout) {
		// Run cancelled; not a member failure.
		return ctx.Err()
	}
	tracker.members.Add(1)
	if err != nil {
		memberErr := &domain.MemberError{Archive: archive.Path(), Member: name, Err: err}
		tracker.memberFailed(archive.Path(), name, memberErr)
		logger.Warn("Member skipped", "archive", archive.Path(), "member", name, "error", err)
		return nil
	}

	levels, objects, err := out.write(doc)
	tracker.rowsWritten(levels, objects)
	if err != nil {
		return err
	}
	logger.Debug("Member extracted", "archive", archive.Path(), "member", name, "id", doc.ID,
		"objects", objects)
	return nil
}

// extract reads and parses one member, bounded by the member timeout.
// A timed out member is reported as failed and its late result discarded,
// but extract still waits for the read to return. The member keeps its
// dispatcher slot until then, so no more than settings.Workers reads run at
// once and the archive is never closed under a running read.
func (p *ArchiveProcessor) extract(ctx context.Context, archive driven.Archive, name string) (*domain.Document, error) {
	timeout := p.settings.MemberTimeout
	if timeout <= 0 {
		return p.readAndParse(ctx, archive, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		doc *domain.Document
		err error
	}
	done := make(chan result, 1)
	go func() {
		doc, err := p.readAndParse(ctx, archive, name)
		done <- result{doc: doc, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", domain.ErrMemberTimeout, timeout)
		}
		return r.doc, r.err
	case <-ctx.Done():
		<-done
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", domain.ErrMemberTimeout, timeout)
		}
		return nil, ctx.Err()
	}
}

func (p *ArchiveProcessor) readAndParse(ctx context.Context, archive driven.Archive, name string) (*domain.Document, error) {
	data, err := archive.ReadMember(name)
	if err != nil {
		return nil, err
	}
	return p.extractor.Extract(ctx, data)
}

// openOutputs opens both sinks. Failure is fatal.
func (p *ArchiveProcessor) openOutputs(levelsPath, objectsPath string) (outputs, error) {
	levels, err := p.sinks.Open(levelsPath, p.settings.AppendSinks)
	if err != nil {
		return outputs{}, sinkErr(err)
	}
	objects, err := p.sinks.Open(objectsPath, p.settings.AppendSinks)
	if err != nil {
		_ = levels.Close()
		return outputs{}, sinkErr(err)
	}
	return outputs{levels: levels, objects: objects}, nil
}

// write appends the rows of one document: one level row, then all object
// rows in a single append. It returns the rows written.
func (o outputs) write(doc *domain.Document) (int, int, error) {
	if err := o.levels.Append(doc.LevelRecord().Fields()); err != nil {
		return 0, 0, sinkErr(err)
	}

	records := doc.ObjectRecords()
	if len(records) == 0 {
		return 1, 0, nil
	}
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Fields())
	}
	if err := o.objects.Append(rows...); err != nil {
		return 1, 0, sinkErr(err)
	}
	return 1, len(rows), nil
}

// close flushes and closes both sinks.
func (o outputs) close() error {
	if err := errors.Join(o.levels.Close(), o.objects.Close()); err != nil {
		return sinkErr(err)
	}
	return nil
}

// saveRun persists the report when a run store is configured.
// A persistence failure does not fail the run.
func (p *ArchiveProcessor) saveRun(ctx context.Context, report *domain.RunReport) {
	if p.runs == nil {
		return
	}
	if err := p.runs.SaveRun(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("Failed to save run report", "run", report.ID, "error", err)
	}
}

func (p *ArchiveProcessor) setActive(t *runTracker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = t
}

func sinkErr(err error) error {
	if errors.Is(err, domain.ErrSinkWrite) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSinkWrite, err)
}
