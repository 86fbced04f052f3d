package views

import (
	"github.com/Cyclone1070/vault/internal/ui/models"
)

// RenderPreview renders the preview pane for the selected file.
func RenderPreview(s models.State) string {
	if s.ActiveID == "" {
		return MutedStyle.Render("No file selected.")
	}
	return s.Viewport.View()
}
