package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var keepExisting bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean, generate and process in one timed benchmark",
	Long: `Removes previous archives and outputs, generates a fresh set of archives,
then processes them, reporting how long each phase took.

Use --keep to skip the cleanup and process whatever is already present
alongside the new archives.`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	addDirFlag(runCmd)
	addProducerFlags(runCmd)
	addProcessorFlags(runCmd)
	runCmd.Flags().BoolVar(&keepExisting, "keep", false, "keep existing archives and outputs")
	runCmd.Flags().IntVar(&maxFailures, "show-failures", 10, "maximum number of failures to list")
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	if archiveProducer == nil {
		return errors.New("producer not configured")
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if !keepExisting {
		if cleaner == nil {
			return errors.New("cleaner not configured")
		}
		if err := cleaner.Clean(settings.ArchiveDir, settings.LevelsPath(), settings.ObjectsPath()); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	start := time.Now()
	paths, err := archiveProducer.Produce(cmd.Context(), settings.ArchiveDir,
		settings.Archives, settings.DocumentsPerArchive)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	generated := time.Since(start)
	cmd.Printf("Generated %d archives in %s.\n", len(paths), formatDuration(generated))

	processStart := time.Now()
	report, err := processArchives(cmd, settings)
	processed := time.Since(processStart)
	if report != nil {
		printReport(cmd, report, maxFailures)
	}
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	cmd.Println()
	cmd.Println(titleStyle.Render("Timing"))
	cmd.Println("  " + labelStyle.Render("Generate:") + formatDuration(generated))
	cmd.Println("  " + labelStyle.Render("Process:") + formatDuration(processed))
	cmd.Println("  " + labelStyle.Render("Total:") + formatDuration(time.Since(start)))
	return nil
}
