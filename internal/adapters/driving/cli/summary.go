package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/xmlzip/internal/core/domain"
)

// Summary styles. Colours are dropped automatically when stdout is not a terminal.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Width(12)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// printReport writes a run summary followed by at most limit failures.
func printReport(cmd *cobra.Command, report *domain.RunReport, limit int) {
	cmd.Println()
	cmd.Println(titleStyle.Render("Run " + report.ID))
	line := func(label, value string) {
		cmd.Println("  " + labelStyle.Render(label) + value)
	}
	line("Archives:", fmt.Sprintf("%d (%d failed)", report.Archives, report.ArchivesFailed))
	line("Documents:", fmt.Sprintf("%d parsed, %d skipped", report.DocumentsParsed(), report.MembersFailed))
	line("Rows:", fmt.Sprintf("%d levels, %d objects", report.LevelRows, report.ObjectRows))
	line("Output:", fmt.Sprintf("%s, %s", report.LevelsPath, report.ObjectsPath))
	line("Duration:", formatDuration(report.Duration()))

	switch {
	case report.FinishedAt.IsZero():
		cmd.Println(errorStyle.Render("Aborted"))
	case report.Degraded():
		cmd.Println(warningStyle.Render("Completed with skipped data"))
	default:
		cmd.Println(successStyle.Render("Completed"))
	}

	printFailures(cmd, report.Failures, limit)
}

func printFailures(cmd *cobra.Command, failures []domain.Failure, limit int) {
	if len(failures) == 0 || limit <= 0 {
		return
	}

	cmd.Println()
	cmd.Println("Failures:")
	for i, f := range failures {
		if i == limit {
			cmd.Printf("  ... and %d more\n", len(failures)-limit)
			break
		}
		where := filepath.Base(f.Archive)
		if f.Kind == domain.FailureMember {
			where += "/" + f.Member
		}
		cmd.Printf("  %s %s: %s\n", errorStyle.Render(string(f.Kind)), where, f.Message)
	}
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.String()
	}
}
