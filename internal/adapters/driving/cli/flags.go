package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// overrides holds per-invocation values that replace stored settings
// when their flag is given.
var overrides struct {
	dir        string
	archives   int
	documents  int
	workers    int
	scheduler  string
	extraction string
	timeout    time.Duration
	rate       float64
	outputDir  string
	appendOut  bool
}

func addDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&overrides.dir, "dir", "", "archive directory (default from settings)")
	cmd.Flags().StringVar(&overrides.outputDir, "output-dir", "", "directory for levels.csv and objects.csv (default: parent of --dir)")
}

func addProducerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&overrides.archives, "archives", "a", 0, "number of archives to produce")
	cmd.Flags().IntVarP(&overrides.documents, "documents", "d", 0, "documents per archive")
}

func addProcessorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&overrides.workers, "workers", "w", 0, "members processed at once per archive")
	cmd.Flags().StringVar(&overrides.scheduler, "scheduler", "", "member scheduler: wave or pool")
	cmd.Flags().StringVar(&overrides.extraction, "extraction", "", "field extraction: tagged or positional")
	cmd.Flags().DurationVar(&overrides.timeout, "timeout", 0, "per-member read and parse timeout (0 disables)")
	cmd.Flags().Float64Var(&overrides.rate, "archive-rate", 0, "archive opens per second (0 is unlimited)")
	cmd.Flags().BoolVar(&overrides.appendOut, "append", false, "append to existing output files")
}

// resolveSettings loads stored settings and applies the flags given to cmd.
func resolveSettings(cmd *cobra.Command) (*domain.Settings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("dir") {
		settings.ArchiveDir = overrides.dir
	}
	if changed("output-dir") {
		settings.OutputDir = overrides.outputDir
	}
	if changed("archives") {
		settings.Archives = overrides.archives
	}
	if changed("documents") {
		settings.DocumentsPerArchive = overrides.documents
	}
	if changed("workers") {
		settings.Workers = overrides.workers
	}
	if changed("scheduler") {
		settings.Scheduler = domain.SchedulerKind(overrides.scheduler)
	}
	if changed("extraction") {
		settings.Extraction = domain.ExtractionMode(overrides.extraction)
	}
	if changed("timeout") {
		settings.MemberTimeout = overrides.timeout
	}
	if changed("archive-rate") {
		settings.ArchiveRate = overrides.rate
	}
	if changed("append") {
		settings.AppendSinks = overrides.appendOut
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
