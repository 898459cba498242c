// Command xmlzip generates zip archives of XML documents and extracts them
// into tab-separated output files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/xmlzip/internal/adapters/driven/archive/zipfile"
	"github.com/custodia-labs/xmlzip/internal/adapters/driven/config/file"
	"github.com/custodia-labs/xmlzip/internal/adapters/driven/sink/tsv"
	"github.com/custodia-labs/xmlzip/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/xmlzip/internal/adapters/driving/cli"
	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
	"github.com/custodia-labs/xmlzip/internal/core/services"
	xmlextract "github.com/custodia-labs/xmlzip/internal/extractors/xmldoc"
	xmlgen "github.com/custodia-labs/xmlzip/internal/generators/xmldoc"
	"github.com/custodia-labs/xmlzip/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, bootstrap)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the adapters to the core services.
func bootstrap(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	// Run history is optional. A store that cannot be opened disables it.
	var runStore driven.RunStore
	var closeStore func() error
	if settings.StorePath != "" {
		store, err := sqlite.NewStore(settings.StorePath)
		if err != nil {
			logger.Warn("run history disabled", "path", settings.StorePath, "error", err)
		} else {
			runStore = store
			closeStore = store.Close
		}
	}

	reader := zipfile.NewReader()
	sinks := tsv.NewFactory()
	newProcessor := func(s domain.Settings) (driving.ArchiveProcessor, error) {
		extractor, err := xmlextract.New(s.Extraction)
		if err != nil {
			return nil, err
		}
		return services.NewArchiveProcessor(reader, extractor, sinks, runStore, s), nil
	}

	return &cli.Services{
		Settings:  settingsService,
		Producer:  services.NewArchiveProducer(xmlgen.New(xmlgen.DefaultOptions(), nil), zipfile.NewWriter()),
		Processor: newProcessor,
		Runs:      services.NewRunHistoryService(runStore),
		Cleaner:   services.NewCleaner(),
		Close: func() error {
			if closeStore == nil {
				return nil
			}
			return closeStore()
		},
	}, nil
}
