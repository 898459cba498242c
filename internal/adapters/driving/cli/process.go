package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

// progressInterval is how often progress is polled.
var progressInterval = 500 * time.Millisecond

// isTerminal reports whether stdout is a terminal. Progress is only drawn on terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var maxFailures int

var processCmd = &cobra.Command{
	Use:   "process [dir]",
	Short: "Extract every archive into levels.csv and objects.csv",
	Long: `Scans the archive directory and processes every entry as a zip archive.
Each member document yields one row in levels.csv and one row per object in
objects.csv. Both files are written next to the archive directory unless
--output-dir is set.

Unreadable archives and malformed documents are skipped and reported.
Failure to write an output file aborts the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	addDirFlag(processCmd)
	addProcessorFlags(processCmd)
	processCmd.Flags().IntVar(&maxFailures, "show-failures", 10, "maximum number of failures to list")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		settings.ArchiveDir = args[0]
	}

	report, err := processArchives(cmd, settings)
	if report != nil {
		printReport(cmd, report, maxFailures)
	}
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}
	return nil
}

// processArchives builds a processor for settings and runs it over the archive directory.
func processArchives(cmd *cobra.Command, settings *domain.Settings) (*domain.RunReport, error) {
	if newProcessor == nil {
		return nil, errors.New("processor not configured")
	}

	processor, err := newProcessor(*settings)
	if err != nil {
		return nil, err
	}

	cmd.Printf("Processing %s with %d workers (%s, %s)...\n",
		settings.ArchiveDir, settings.Workers, settings.Scheduler, settings.Extraction)

	return processWithProgress(cmd.Context(), cmd, processor, settings.ArchiveDir, isTerminal())
}

// processWithProgress runs the processor while displaying progress updates.
func processWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	processor driving.ArchiveProcessor,
	dir string,
	interactive bool,
) (*domain.RunReport, error) {
	type result struct {
		report *domain.RunReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := processor.Process(ctx, dir)
		done <- result{report: report, err: err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	drawn := false
	lastCount := -1
	for {
		select {
		case r := <-done:
			if drawn {
				cmd.Println()
			}
			return r.report, r.err
		case <-ticker.C:
			if !interactive {
				continue
			}
			status := processor.Status()
			if !status.Running || status.MembersProcessed == lastCount {
				continue
			}
			cmd.Printf("\rProcessing... %d/%d archives, %d documents (%d errors)",
				status.ArchivesDone, status.ArchivesTotal, status.MembersProcessed, status.ErrorCount)
			lastCount = status.MembersProcessed
			drawn = true
		}
	}
}
