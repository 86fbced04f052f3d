package ui

import (
	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// visibleRows flattens the graph into tree rows, descending only into expanded folders.
func visibleRows(g *graph.Graph) []models.Row {
	var rows []models.Row
	seen := make(map[string]bool)
	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, n := range g.Children(parentID) {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			rows = append(rows, models.Row{Node: n, Depth: depth})
			if n.IsFolder() && n.Expanded {
				walk(n.ID, depth+1)
			}
		}
	}
	walk("", 0)
	return rows
}
