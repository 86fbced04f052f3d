package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar: activity, save indicator and active path.
func RenderStatus(s models.State) string {
	activity := "Ready"
	if s.Busy {
		dots := strings.Repeat(".", s.DotCount)
		activity = fmt.Sprintf("%s %s%s", s.Spinner.View(), s.BusyLabel, dots)
	}

	var save string
	switch s.SaveStatus {
	case persist.StatusSaving:
		save = MutedStyle.Render("● saving")
	case persist.StatusError:
		save = LogErrorStyle.Render("● error")
	default:
		save = LogSuccessStyle.Render("● saved")
	}

	left := StatusStyle.Render(activity + "  " + save)
	if s.ActivePath == "" {
		return left
	}
	right := StatusStyle.Foreground(ColorMuted).Render(s.ActivePath)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
