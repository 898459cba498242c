package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driving"
	"github.com/custodia-labs/xmlzip/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// ProcessorFactory builds a processor for the effective settings of one invocation.
type ProcessorFactory func(settings domain.Settings) (driving.ArchiveProcessor, error)

// Services holds the driving ports the commands use.
type Services struct {
	Settings  driving.SettingsService
	Producer  driving.ArchiveProducer
	Processor ProcessorFactory
	Runs      driving.RunHistory
	Cleaner   driving.Cleaner

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Bootstrap builds the services for a config directory.
// An empty configDir selects the default location.
type Bootstrap func(configDir string) (*Services, error)

// Services used by commands. Set by bootstrap, or directly in tests.
var (
	settingsService driving.SettingsService
	archiveProducer driving.ArchiveProducer
	newProcessor    ProcessorFactory
	runHistory      driving.RunHistory
	cleaner         driving.Cleaner
	closeServices   func() error
)

var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "xmlzip",
	Short: "Generate and process archives of XML documents",
	Long: `xmlzip produces zip archives of small XML documents and extracts every
document into two tab-separated files, levels.csv and objects.csv.

Archives are processed concurrently. Members of one archive are processed
by at most W workers at a time.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.xmlzip)")
}

// Execute runs the root command with services built by b.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		err = errors.Join(err, closeServices())
		closeServices = nil
	}
	return err
}

// setup configures logging and builds services before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil {
		return nil
	}
	svc, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	useServices(svc)

	if !verbose && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Verbose {
			logger.SetVerbose(true)
		}
	}
	return nil
}

func useServices(svc *Services) {
	settingsService = svc.Settings
	archiveProducer = svc.Producer
	newProcessor = svc.Processor
	runHistory = svc.Runs
	cleaner = svc.Cleaner
	closeServices = svc.Close
}
