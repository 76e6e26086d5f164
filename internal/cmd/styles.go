package cmd

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// statusGlyph maps a phase status to its list marker.
func statusGlyph(status string) string {
	switch status {
	case "completed":
		return successStyle.Render("✓")
	case "in_progress":
		return stageStyle.Render("▶")
	case "available":
		return "○"
	default:
		return subtleStyle.Render("🔒")
	}
}
