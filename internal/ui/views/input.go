package views

import (
	"github.com/Cyclone1070/vault/internal/ui/models"
)

var promptLabels = map[models.Prompt]string{
	models.PromptNewFile:       "New file: ",
	models.PromptNewFolder:     "New folder: ",
	models.PromptConfirmDelete: "Delete? (y/n) ",
	models.PromptAsk:           "Ask: ",
	models.PromptPull:          "Pull owner/repo: ",
}

const keyHelp = "↑/↓ move  enter open  n file  N folder  d delete  r run  a ask  p pull  g gitignore  t template  q quit"

// RenderInput renders the input bar, or the key help when no prompt is open.
func RenderInput(s models.State) string {
	label, ok := promptLabels[s.Prompt]
	if !ok {
		return InputStyle.Render(MutedStyle.Render(keyHelp))
	}
	if s.Prompt == models.PromptConfirmDelete {
		return InputStyle.Render(label)
	}
	return InputStyle.Render(label + s.Input.View())
}
