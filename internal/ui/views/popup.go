package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderTemplatePopup renders the starter template picker.
func RenderTemplatePopup(s models.State) string {
	if !s.ShowTemplates || len(s.Templates) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Load Template:"))
	lines = append(lines, "")

	for i, name := range s.Templates {
		if i == s.TemplateIndex {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Render(fmt.Sprintf("▸ %s", name)))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", name))
		}
	}

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Render("Replaces the workspace. Enter: Load  Esc: Cancel"))

	return PopupBoxStyle.Render(strings.Join(lines, "\n"))
}
