package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show processing run history",
	Long: `Lists recent processing runs, newest first. With a run ID, shows that
run in full including every recorded failure.

Run history is kept only when store.path is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if runHistory == nil {
		return errors.New("run history not configured")
	}

	if len(args) > 0 {
		report, err := runHistory.Get(cmd.Context(), args[0])
		if err != nil {
			return runsErr(cmd, err)
		}
		printReport(cmd, report, len(report.Failures))
		return nil
	}

	runs, err := runHistory.List(cmd.Context(), runsLimit)
	if err != nil {
		return runsErr(cmd, err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-36s  %-19s  %8s  %9s  %7s  %s\n", "ID", "STARTED", "ARCHIVES", "DOCUMENTS", "SKIPPED", "DURATION")
	for _, r := range runs {
		cmd.Printf("%-36s  %-19s  %8d  %9d  %7d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Archives, r.DocumentsParsed(), r.ArchivesFailed+r.MembersFailed,
			formatDuration(r.Duration()))
	}
	return nil
}

func runsErr(cmd *cobra.Command, err error) error {
	if errors.Is(err, domain.ErrRunStoreUnavailable) {
		cmd.Println("Run history is disabled. Set store.path to enable it:")
		cmd.Println("  xmlzip settings set store.path ~/.xmlzip/data")
		return nil
	}
	return fmt.Errorf("failed to read run history: %w", err)
}
