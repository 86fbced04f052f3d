package views

import (
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("63")
	ColorMuted   = lipgloss.Color("241")
	ColorSuccess = lipgloss.Color("42")
	ColorError   = lipgloss.Color("196")
)

var (
	TreePaneStyle    lipgloss.Style
	PreviewPaneStyle lipgloss.Style
	CursorStyle      lipgloss.Style
	ActiveFileStyle  lipgloss.Style
	FolderStyle      lipgloss.Style
	MutedStyle       lipgloss.Style
	LogInfoStyle     lipgloss.Style
	LogSuccessStyle  lipgloss.Style
	LogErrorStyle    lipgloss.Style
	LogInputStyle    lipgloss.Style
	InputStyle       lipgloss.Style
	StatusStyle      lipgloss.Style
	PopupBoxStyle    lipgloss.Style
)

func init() {
	buildStyles()
}

// ApplyTheme replaces the palette with the configured colors.
func ApplyTheme(cfg config.UIConfig) {
	ColorPrimary = lipgloss.Color(cfg.ColorPrimary)
	ColorMuted = lipgloss.Color(cfg.ColorMuted)
	ColorSuccess = lipgloss.Color(cfg.ColorSuccess)
	ColorError = lipgloss.Color(cfg.ColorError)
	buildStyles()
}

func buildStyles() {
	TreePaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
	PreviewPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	CursorStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ActiveFileStyle = lipgloss.NewStyle().Underline(true)
	FolderStyle = lipgloss.NewStyle().Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	LogInfoStyle = lipgloss.NewStyle()
	LogSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	LogErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	LogInputStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false).
		BorderForeground(ColorMuted)
	StatusStyle = lipgloss.NewStyle().Padding(0, 1)
	PopupBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
}
