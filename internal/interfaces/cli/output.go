package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

var (
	installedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	outdatedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// renderOutcomes renders the per-plugin results as a table.
func renderOutcomes(outcomes []domain.Outcome) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Registry", "Plugin", "Installed", "Latest", "Status"})

	for _, outcome := range outcomes {
		t.AppendRow(table.Row{
			outcome.Registry,
			outcome.Plugin,
			versionCell(outcome.Installed),
			versionCell(outcome.Latest),
			statusCell(outcome),
		})
	}

	return t.Render()
}

func versionCell(v *domain.Version) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func statusCell(outcome domain.Outcome) string {
	switch outcome.Status {
	case domain.StatusInstalled:
		return installedStyle.Render(string(outcome.Status))
	case domain.StatusSkipped:
		return skippedStyle.Render(string(outcome.Status))
	case domain.StatusOutdated:
		return outdatedStyle.Render(string(outcome.Status))
	default:
		return failedStyle.Render(string(outcome.Status))
	}
}
