package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// Output file names, written next to the archive directory by default.
const (
	LevelsFileName  = "levels.csv"
	ObjectsFileName = "objects.csv"
)

// SchedulerKind selects how members of one archive are dispatched.
type SchedulerKind string

// Available schedulers.
const (
	// SchedulerWave dispatches members in successive batches of W and waits
	// for each whole batch before starting the next.
	SchedulerWave SchedulerKind = "wave"

	// SchedulerPool runs W workers fed from a task channel.
	SchedulerPool SchedulerKind = "pool"
)

// IsValid returns true if the scheduler is recognised.
func (k SchedulerKind) IsValid() bool {
	switch k {
	case SchedulerWave, SchedulerPool:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SchedulerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the scheduler.
func (k SchedulerKind) Description() string {
	switch k {
	case SchedulerWave:
		return "Wave (fixed batches of W, each fully awaited)"
	case SchedulerPool:
		return "Pool (W workers pulling from a queue)"
	default:
		return unknownDescription
	}
}

// ExtractionMode selects how fields are recovered from a member document.
type ExtractionMode string

// Available extraction modes.
const (
	// ExtractionTagged looks fields up by element and attribute name.
	ExtractionTagged ExtractionMode = "tagged"

	// ExtractionPositional reads fields by element index in document order.
	ExtractionPositional ExtractionMode = "positional"
)

// IsValid returns true if the extraction mode is recognised.
func (m ExtractionMode) IsValid() bool {
	switch m {
	case ExtractionTagged, ExtractionPositional:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ExtractionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ExtractionMode) Description() string {
	switch m {
	case ExtractionTagged:
		return "Tagged (lookup by element name)"
	case ExtractionPositional:
		return "Positional (lookup by element index)"
	default:
		return unknownDescription
	}
}

// Settings holds the recognised configuration for producing and processing archives.
type Settings struct {
	// ArchiveDir is the directory archives are written to and scanned from.
	ArchiveDir string

	// Archives is the number of archives the producer creates.
	Archives int

	// DocumentsPerArchive is the number of documents packed into each archive.
	DocumentsPerArchive int

	// Workers is the bound W on concurrently processed members per archive.
	Workers int

	// Scheduler selects the member dispatch strategy.
	Scheduler SchedulerKind

	// Extraction selects the member field lookup strategy.
	Extraction ExtractionMode

	// MemberTimeout bounds reading and parsing one member. Zero disables it.
	MemberTimeout time.Duration

	// ArchiveRate limits archive opens per second. Zero means unlimited.
	ArchiveRate float64

	// OutputDir overrides where levels.csv and objects.csv are written.
	// Empty means the parent of ArchiveDir.
	OutputDir string

	// AppendSinks appends to existing output files instead of truncating them.
	AppendSinks bool

	// StorePath is the directory holding the run history database.
	// Empty disables run history.
	StorePath string

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		ArchiveDir:          "zips",
		Archives:            50,
		DocumentsPerArchive: 100,
		Workers:             5,
		Scheduler:           SchedulerWave,
		Extraction:          ExtractionTagged,
		MemberTimeout:       30 * time.Second,
	}
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.ArchiveDir == "" {
		return fmt.Errorf("%w: archive directory is required", ErrInvalidInput)
	}
	if s.Archives < 0 {
		return fmt.Errorf("%w: archives must not be negative", ErrInvalidInput)
	}
	if s.DocumentsPerArchive < 0 {
		return fmt.Errorf("%w: documents per archive must not be negative", ErrInvalidInput)
	}
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	}
	if !s.Scheduler.IsValid() {
		return fmt.Errorf("%w: unknown scheduler %q", ErrInvalidInput, s.Scheduler)
	}
	if !s.Extraction.IsValid() {
		return fmt.Errorf("%w: unknown extraction mode %q", ErrInvalidInput, s.Extraction)
	}
	if s.MemberTimeout < 0 {
		return fmt.Errorf("%w: member timeout must not be negative", ErrInvalidInput)
	}
	if s.ArchiveRate < 0 {
		return fmt.Errorf("%w: archive rate must not be negative", ErrInvalidInput)
	}
	return nil
}

// OutputRoot returns the directory holding the two output files.
// By default it is the parent of the archive directory, resolved against the
// working directory so that "." still puts the outputs one level up.
func (s *Settings) OutputRoot() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	dir := filepath.Clean(s.ArchiveDir)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Dir(dir)
}

// LevelsPath returns the path of the Levels sink.
func (s *Settings) LevelsPath() string {
	return filepath.Join(s.OutputRoot(), LevelsFileName)
}

// ObjectsPath returns the path of the Objects sink.
func (s *Settings) ObjectsPath() string {
	return filepath.Join(s.OutputRoot(), ObjectsFileName)
}

// AllSchedulers returns all available schedulers.
func AllSchedulers() []SchedulerKind {
	return []SchedulerKind{SchedulerWave, SchedulerPool}
}

// AllExtractionModes returns all available extraction modes.
func AllExtractionModes() []ExtractionMode {
	return []ExtractionMode{ExtractionTagged, ExtractionPositional}
}
