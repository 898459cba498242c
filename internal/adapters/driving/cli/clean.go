package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the archive directory and output files",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	addDirFlag(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	if cleaner == nil {
		return errors.New("cleaner not configured")
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if err := cleaner.Clean(settings.ArchiveDir, settings.LevelsPath(), settings.ObjectsPath()); err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	cmd.Printf("Removed %s, %s and %s.\n", settings.ArchiveDir, settings.LevelsPath(), settings.ObjectsPath())
	return nil
}
