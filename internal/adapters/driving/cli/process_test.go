package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

func TestProcessCmd_Use(t *testing.T) {
	assert.Equal(t, "process [dir]", processCmd.Use)
	for _, name := range []string{"workers", "scheduler", "extraction", "timeout", "archive-rate", "append", "output-dir", "show-failures"} {
		assert.NotNil(t, processCmd.Flags().Lookup(name), name)
	}
}

func TestProcessCmd_PrintsSummary(t *testing.T) {
	env := setupCLITest(t)
	env.processor.report = sampleReport()

	out, err := execute("process")

	require.NoError(t, err)
	assert.Equal(t, "/work/zips", env.processor.dir)
	assert.Contains(t, out, "Processing /work/zips with 5 workers (wave, tagged)")
	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "6 parsed, 0 skipped")
	assert.Contains(t, out, "6 levels, 12 objects")
	assert.Contains(t, out, "Completed")
	assert.NotContains(t, out, "Failures:")
}

func TestProcessCmd_FlagsOverride(t *testing.T) {
	env := setupCLITest(t)
	env.processor.report = sampleReport()

	_, err := execute("process", "/data/in",
		"-w", "7", "--scheduler", "pool", "--extraction", "positional",
		"--timeout", "2s", "--archive-rate", "3", "--append", "--output-dir", "/data/out")

	require.NoError(t, err)
	require.Len(t, env.built, 1)
	s := env.built[0]
	assert.Equal(t, "/data/in", s.ArchiveDir)
	assert.Equal(t, 7, s.Workers)
	assert.Equal(t, domain.SchedulerPool, s.Scheduler)
	assert.Equal(t, domain.ExtractionPositional, s.Extraction)
	assert.Equal(t, 2*time.Second, s.MemberTimeout)
	assert.InDelta(t, 3.0, s.ArchiveRate, 0)
	assert.True(t, s.AppendSinks)
	assert.Equal(t, "/data/out", s.OutputDir)
	assert.Equal(t, "/data/in", env.processor.dir)
}

func TestProcessCmd_RejectsUnknownScheduler(t *testing.T) {
	env := setupCLITest(t)

	_, err := execute("process", "--scheduler", "lifo")

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, env.built)
}

func TestProcessCmd_ListsFailures(t *testing.T) {
	env := setupCLITest(t)
	report := sampleReport()
	report.ArchivesFailed = 1
	report.MembersFailed = 2
	report.Failures = []domain.Failure{
		{Kind: domain.FailureArchive, Archive: "/work/zips/notes.txt", Message: "not a valid zip file"},
		{Kind: domain.FailureMember, Archive: "/work/zips/a.zip", Member: "x.xml", Message: "member parse failed"},
		{Kind: domain.FailureMember, Archive: "/work/zips/a.zip", Member: "y.xml", Message: "member timed out"},
	}
	env.processor.report = report

	out, err := execute("process", "--show-failures", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Completed with skipped data")
	assert.Contains(t, out, "notes.txt: not a valid zip file")
	assert.Contains(t, out, "a.zip/x.xml: member parse failed")
	assert.NotContains(t, out, "y.xml")
	assert.Contains(t, out, "... and 1 more")
}

func TestProcessCmd_FatalError(t *testing.T) {
	env := setupCLITest(t)
	report := sampleReport()
	report.FinishedAt = time.Time{}
	env.processor.report = report
	env.processor.err = fmt.Errorf("%w: disk full", domain.ErrSinkWrite)

	out, err := execute("process")

	require.ErrorIs(t, err, domain.ErrSinkWrite)
	assert.Contains(t, err.Error(), "process failed")
	assert.Contains(t, out, "Aborted")
}

func TestProcessCmd_MissingDirectory(t *testing.T) {
	env := setupCLITest(t)
	env.processor.err = domain.ErrDirectoryNotFound

	out, err := execute("process")

	require.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	assert.NotContains(t, out, "Run ")
}

func TestProcessCmd_FactoryError(t *testing.T) {
	setupCLITest(t)
	newProcessor = func(domain.Settings) (driving.ArchiveProcessor, error) {
		return nil, errors.New("no extractor")
	}

	_, err := execute("process")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extractor")
}

func TestProcessCmd_NotConfigured(t *testing.T) {
	setupCLITest(t)
	newProcessor = nil

	_, err := execute("process")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "processor not configured")
}

func TestProcessWithProgress_DrawsOnTerminal(t *testing.T) {
	oldInterval := progressInterval
	progressInterval = 5 * time.Millisecond
	defer func() { progressInterval = oldInterval }()

	processor := &mockProcessor{
		report:  sampleReport(),
		release: make(chan struct{}),
		status: driving.ProcessStatus{
			Running:          true,
			ArchivesDone:     1,
			ArchivesTotal:    2,
			MembersProcessed: 3,
			ErrorCount:       1,
		},
	}

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(processor.release)
	}()

	report, err := processWithProgress(context.Background(), cmd, processor, "/work/zips", true)

	require.NoError(t, err)
	assert.Equal(t, "run-1", report.ID)
	assert.Contains(t, buf.String(), "\rProcessing... 1/2 archives, 3 documents (1 errors)")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestProcessWithProgress_QuietWhenNotTerminal(t *testing.T) {
	oldInterval := progressInterval
	progressInterval = 5 * time.Millisecond
	defer func() { progressInterval = oldInterval }()

	processor := &mockProcessor{
		report:  sampleReport(),
		release: make(chan struct{}),
		status:  driving.ProcessStatus{Running: true, MembersProcessed: 3},
	}

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	go func() {
		time.Sleep(30 * time.Millisecond)
		close(processor.release)
	}()

	_, err := processWithProgress(context.Background(), cmd, processor, "/work/zips", false)

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
