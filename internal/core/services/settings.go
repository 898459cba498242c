package services

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyArchiveDir    = "archive.dir"
	keyArchives      = "producer.archives"
	keyDocuments     = "producer.documents"
	keyWorkers       = "processor.workers"
	keyScheduler     = "processor.scheduler"
	keyExtraction    = "processor.extraction"
	keyMemberTimeout = "processor.member_timeout"
	keyArchiveRate   = "processor.archive_rate"
	keyOutputDir     = "sink.output_dir"
	keyAppendSinks   = "sink.append"
	keyStorePath     = "store.path"
	keyVerbose       = "log.verbose"
)

var settingKeys = []string{
	keyArchiveDir,
	keyArchives,
	keyDocuments,
	keyWorkers,
	keyScheduler,
	keyExtraction,
	keyMemberTimeout,
	keyArchiveRate,
	keyOutputDir,
	keyAppendSinks,
	keyStorePath,
	keyVerbose,
}

// SettingsService maps the config store onto domain.Settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Unset or unusable values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		ArchiveDir:          s.getString(keyArchiveDir, defaults.ArchiveDir),
		Archives:            s.getInt(keyArchives, defaults.Archives),
		DocumentsPerArchive: s.getInt(keyDocuments, defaults.DocumentsPerArchive),
		Workers:             s.getPositiveInt(keyWorkers, defaults.Workers),
		Scheduler:           s.getScheduler(defaults.Scheduler),
		Extraction:          s.getExtraction(defaults.Extraction),
		MemberTimeout:       s.getDuration(keyMemberTimeout, defaults.MemberTimeout),
		ArchiveRate:         s.getFloat(keyArchiveRate, defaults.ArchiveRate),
		OutputDir:           s.configStore.GetString(keyOutputDir),
		AppendSinks:         s.getBool(keyAppendSinks, defaults.AppendSinks),
		StorePath:           s.configStore.GetString(keyStorePath),
		Verbose:             s.getBool(keyVerbose, defaults.Verbose),
	}

	return settings, nil
}

// Save validates and persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyArchiveDir, settings.ArchiveDir},
		{keyArchives, settings.Archives},
		{keyDocuments, settings.DocumentsPerArchive},
		{keyWorkers, settings.Workers},
		{keyScheduler, settings.Scheduler.String()},
		{keyExtraction, settings.Extraction.String()},
		{keyMemberTimeout, settings.MemberTimeout.String()},
		{keyArchiveRate, settings.ArchiveRate},
		{keyOutputDir, settings.OutputDir},
		{keyAppendSinks, settings.AppendSinks},
		{keyStorePath, settings.StorePath},
		{keyVerbose, settings.Verbose},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set parses value for key, validates the resulting settings and persists them.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := applySetting(settings, key, value); err != nil {
		return err
	}

	return s.Save(settings)
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// applySetting parses value into the field named by key.
func applySetting(settings *domain.Settings, key, value string) error {
	invalid := func(err error) error {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	switch key {
	case keyArchiveDir:
		settings.ArchiveDir = value
	case keyArchives, keyDocuments, keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return invalid(err)
		}
		switch key {
		case keyArchives:
			settings.Archives = n
		case keyDocuments:
			settings.DocumentsPerArchive = n
		default:
			settings.Workers = n
		}
	case keyScheduler:
		settings.Scheduler = domain.SchedulerKind(value)
	case keyExtraction:
		settings.Extraction = domain.ExtractionMode(value)
	case keyMemberTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return invalid(err)
		}
		settings.MemberTimeout = d
	case keyArchiveRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalid(err)
		}
		settings.ArchiveRate = f
	case keyOutputDir:
		settings.OutputDir = value
	case keyAppendSinks, keyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalid(err)
		}
		if key == keyAppendSinks {
			settings.AppendSinks = b
		} else {
			settings.Verbose = b
		}
	case keyStorePath:
		settings.StorePath = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.getInt(key, defaultVal); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getScheduler(defaultVal domain.SchedulerKind) domain.SchedulerKind {
	kind := domain.SchedulerKind(s.configStore.GetString(keyScheduler))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getExtraction(defaultVal domain.ExtractionMode) domain.ExtractionMode {
	mode := domain.ExtractionMode(s.configStore.GetString(keyExtraction))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
