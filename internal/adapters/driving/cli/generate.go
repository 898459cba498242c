package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Produce archives of random XML documents",
	Long: `Writes archives of randomly generated XML documents into the archive
directory. Each document carries an identifier, a level and a list of
named objects.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addDirFlag(generateCmd)
	addProducerFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if archiveProducer == nil {
		return errors.New("producer not configured")
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Generating %d archives of %d documents in %s...\n",
		settings.Archives, settings.DocumentsPerArchive, settings.ArchiveDir)

	start := time.Now()
	paths, err := archiveProducer.Produce(cmd.Context(), settings.ArchiveDir,
		settings.Archives, settings.DocumentsPerArchive)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	cmd.Printf("Generated %d archives in %s.\n", len(paths), formatDuration(time.Since(start)))
	return nil
}
