package views

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/ui/models"
)

// RenderTree renders the visible rows of the file tree.
func RenderTree(s models.State) string {
	if len(s.Rows) == 0 {
		return MutedStyle.Render("Empty workspace. Press n to create a file.")
	}

	var lines []string
	for i, row := range s.Rows {
		indent := strings.Repeat("  ", row.Depth)
		var label string
		switch {
		case row.Node.IsFolder() && row.Node.Expanded:
			label = FolderStyle.Render("▾ " + row.Node.Name + "/")
		case row.Node.IsFolder():
			label = FolderStyle.Render("▸ " + row.Node.Name + "/")
		case row.Node.ID == s.ActiveID:
			label = "  " + ActiveFileStyle.Render(row.Node.Name)
		default:
			label = "  " + row.Node.Name
		}

		prefix := "  "
		if i == s.Cursor {
			prefix = CursorStyle.Render("› ")
		}
		lines = append(lines, prefix+indent+label)
	}
	return strings.Join(lines, "\n")
}
