package views

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/collab"
)

// RenderLog renders the last max lines of the operation log.
func RenderLog(lines []collab.Line, max int) string {
	if max <= 0 || len(lines) == 0 {
		return ""
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		switch l.Type {
		case collab.LineSuccess:
			out = append(out, LogSuccessStyle.Render(l.Text))
		case collab.LineError:
			out = append(out, LogErrorStyle.Render(l.Text))
		case collab.LineInput:
			out = append(out, LogInputStyle.Render(l.Text))
		default:
			out = append(out, LogInfoStyle.Render(l.Text))
		}
	}
	return strings.Join(out, "\n")
}
