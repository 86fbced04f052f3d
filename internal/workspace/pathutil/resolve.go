// Package pathutil converts between a node's position in the workspace graph and a
// slash-delimited path.
package pathutil

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// Separator delimits path segments.
const Separator = "/"

// BuildPath walks from n up to the root and joins the names with "/".
// The walk is total: a missing parent, a parent that is a file, or a cycle all end the
// walk as if the root had been reached.
func BuildPath(g *graph.Graph, n graph.Node) string {
	segments := []string{n.Name}
	visited := map[string]struct{}{n.ID: {}}
	current := n
	for current.ParentID != "" {
		parent, ok := g.Get(current.ParentID)
		if !ok || !parent.IsFolder() {
			break
		}
		if _, seen := visited[parent.ID]; seen {
			break
		}
		visited[parent.ID] = struct{}{}
		segments = append(segments, parent.Name)
		current = parent
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, Separator)
}

// DecomposePath splits a path into its leaf name and the ancestor names from the root
// down. Leading and trailing separators, empty segments and "." segments are ignored,
// so "src/" and "src" both decompose to ("src", nil).
func DecomposePath(path string) (leaf string, ancestors []string) {
	segments := Segments(path)
	if len(segments) == 0 {
		return "", nil
	}
	return segments[len(segments)-1], segments[:len(segments)-1]
}

// JoinPath is the inverse of DecomposePath.
func JoinPath(leaf string, ancestors []string) string {
	return strings.Join(append(append([]string{}, ancestors...), leaf), Separator)
}

// Segments returns the non-empty segments of path.
func Segments(path string) []string {
	var out []string
	for _, part := range strings.Split(path, Separator) {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

// SegmentCount returns the number of non-empty segments in path.
func SegmentCount(path string) int {
	return len(Segments(path))
}

// IsUnsafe reports whether path climbs out of its root or is absolute.
func IsUnsafe(path string) bool {
	if strings.HasPrefix(path, Separator) || strings.Contains(path, "\\") {
		return true
	}
	for _, s := range Segments(path) {
		if s == ".." {
			return true
		}
	}
	return false
}

// Find resolves a slash path to a node by walking children by name from the root.
// When siblings share a name the first one in listing order wins. Remote imports keep
// the full remote path as a root-level display name, so an exact root-level name match
// is tried first.
func Find(g *graph.Graph, path string) (graph.Node, bool) {
	segments := Segments(path)
	if len(segments) == 0 {
		return graph.Node{}, false
	}
	if len(segments) > 1 {
		for _, child := range g.Children("") {
			if child.Name == path {
				return child, true
			}
		}
	}
	parentID := ""
	var found graph.Node
	for i, name := range segments {
		ok := false
		for _, child := range g.Children(parentID) {
			if child.Name == name && (i == len(segments)-1 || child.IsFolder()) {
				found, ok = child, true
				break
			}
		}
		if !ok {
			return graph.Node{}, false
		}
		parentID = found.ID
	}
	return found, true
}
