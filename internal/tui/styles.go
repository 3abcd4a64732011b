package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/billdraft/internal/theme"
)

var (
	// Colors
	primaryColor = lipgloss.Color("39")  // Blue
	accentColor  = lipgloss.Color("205") // Pink
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("196") // Red

	// Base styles
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117")) // Bright cyan
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(primaryColor).Foreground(lipgloss.Color("0"))

	// Box styles
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	// Layout
	borderColor    = lipgloss.Color("63") // Soft purple
	appBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	// Header/Footer
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true) // Bright yellow

	// Totals panel
	totalLabelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(12)
	totalValueStyle = lipgloss.NewStyle().Foreground(accentColor).Align(lipgloss.Right).Width(16)
	changedStyle    = lipgloss.NewStyle().Foreground(successColor)
	pendingStyle    = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle      = lipgloss.NewStyle().Foreground(errorColor)
)

// palette tints the chrome with the active invoice theme
type palette struct {
	title  lipgloss.Style
	border lipgloss.Style
	accent lipgloss.Color
}

func themePalette(th theme.Theme) palette {
	primary := lipgloss.Color(th.Colors.Primary)
	return palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(primary),
		border: appBorderStyle.BorderForeground(primary),
		accent: lipgloss.Color(th.Colors.Accent),
	}
}

// swatch renders a small block in the given hex color
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
