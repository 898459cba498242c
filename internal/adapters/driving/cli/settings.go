package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the stored settings used by generate, process and run.

Settings live in config.toml in the configuration directory. Flags given to
a command override them for that invocation only.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Parses, validates and stores one setting.

Keys:
  archive.dir               directory archives are written to and read from
  producer.archives         number of archives to generate
  producer.documents        documents per archive
  processor.workers         members processed at once per archive
  processor.scheduler       wave or pool
  processor.extraction      tagged or positional
  processor.member_timeout  per-member timeout, e.g. 30s (0s disables)
  processor.archive_rate    archive opens per second (0 is unlimited)
  sink.output_dir           directory for levels.csv and objects.csv
  sink.append               append to output files instead of truncating
  store.path                run history directory (empty disables)
  log.verbose               enable debug logging`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose the scheduler, extraction mode and worker count.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Archives]")
	cmd.Printf("  Directory: %s\n", settings.ArchiveDir)
	cmd.Printf("  Archives: %d\n", settings.Archives)
	cmd.Printf("  Documents per archive: %d\n", settings.DocumentsPerArchive)
	cmd.Println()

	cmd.Println("[Processor]")
	cmd.Printf("  Workers: %d\n", settings.Workers)
	cmd.Printf("  Scheduler: %s\n", settings.Scheduler.Description())
	cmd.Printf("  Extraction: %s\n", settings.Extraction.Description())
	if settings.MemberTimeout > 0 {
		cmd.Printf("  Member timeout: %s\n", settings.MemberTimeout)
	} else {
		cmd.Printf("  Member timeout: disabled\n")
	}
	if settings.ArchiveRate > 0 {
		cmd.Printf("  Archive rate: %g/s\n", settings.ArchiveRate)
	} else {
		cmd.Printf("  Archive rate: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Levels: %s\n", settings.LevelsPath())
	cmd.Printf("  Objects: %s\n", settings.ObjectsPath())
	if settings.AppendSinks {
		cmd.Printf("  Mode: append\n")
	} else {
		cmd.Printf("  Mode: truncate\n")
	}
	cmd.Println()

	cmd.Println("[History]")
	if settings.StorePath != "" {
		cmd.Printf("  Store: %s\n", settings.StorePath)
	} else {
		cmd.Printf("  Store: disabled\n")
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'xmlzip settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			cmd.Printf("Valid keys: %s\n", strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("xmlzip Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	cmd.Println("Step 1: Select Scheduler")
	cmd.Println("------------------------")
	schedulers := domain.AllSchedulers()
	for i, s := range schedulers {
		cmd.Printf("  %d. %s\n", i+1, s.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", indexOf(schedulers, settings.Scheduler)+1)
	idx := parseChoice(readLine(reader), len(schedulers), indexOf(schedulers, settings.Scheduler)+1)
	settings.Scheduler = schedulers[idx-1]
	cmd.Println()

	cmd.Println("Step 2: Select Extraction Mode")
	cmd.Println("------------------------------")
	modes := domain.AllExtractionModes()
	for i, m := range modes {
		cmd.Printf("  %d. %s\n", i+1, m.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", indexOf(modes, settings.Extraction)+1)
	idx = parseChoice(readLine(reader), len(modes), indexOf(modes, settings.Extraction)+1)
	settings.Extraction = modes[idx-1]
	cmd.Println()

	cmd.Println("Step 3: Workers per Archive")
	cmd.Println("---------------------------")
	cmd.Printf("Enter workers [%d]: ", settings.Workers)
	settings.Workers = parseChoice(readLine(reader), maxWizardWorkers, settings.Workers)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Printf("  Scheduler: %s\n", settings.Scheduler)
	cmd.Printf("  Extraction: %s\n", settings.Extraction)
	cmd.Printf("  Workers: %d\n", settings.Workers)
	return nil
}

// maxWizardWorkers caps the worker count accepted by the wizard.
const maxWizardWorkers = 1024

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
