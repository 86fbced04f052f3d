package views

import (
	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// TreeWidth is the width of the file tree pane, borders included.
const TreeWidth = 32

// LogHeight is the number of log lines shown under the panes.
const LogHeight = 5

// RenderRoot renders the complete explorer layout.
func RenderRoot(s models.State) string {
	if s.ShowTemplates {
		return lipgloss.Place(
			s.Width,
			s.Height,
			lipgloss.Center,
			lipgloss.Center,
			RenderTemplatePopup(s),
			lipgloss.WithWhitespaceChars(""),
			lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
		)
	}

	paneHeight := s.Viewport.Height
	tree := TreePaneStyle.Width(TreeWidth - 2).Height(paneHeight).Render(RenderTree(s))
	preview := PreviewPaneStyle.Render(RenderPreview(s))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tree, preview),
		RenderLog(s.Log, LogHeight),
		RenderInput(s),
		RenderStatus(s),
	)
}
