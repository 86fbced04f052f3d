package ignore

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher reports whether workspace paths are excluded by a .gitignore.
// A nil *Matcher ignores nothing.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher parses .gitignore content. Blank lines and comments are skipped.
func NewMatcher(content string) *Matcher {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns)}
}

// FromGraph builds a matcher from the root-level .gitignore File of g.
// Returns nil when the workspace has none.
func FromGraph(g *graph.Graph) *Matcher {
	for _, n := range g.Children("") {
		if !n.IsFolder() && n.Name == FileName {
			return NewMatcher(n.Content)
		}
	}
	return nil
}

// ShouldIgnore checks if a slash-delimited workspace path matches the patterns.
// Every ancestor directory is checked too, so "build/" excludes "build/out/app.js".
func (m *Matcher) ShouldIgnore(path string) bool {
	if m == nil {
		return false
	}
	segments := pathutil.Segments(path)
	for i := 1; i < len(segments); i++ {
		if m.matcher.Match(segments[:i], true) {
			return true
		}
	}
	return len(segments) > 0 && m.matcher.Match(segments, false)
}

// Languages returns the distinct language tags of the File nodes in g, in first-seen order.
func Languages(g *graph.Graph) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, n := range g.Files() {
		if _, ok := seen[n.Language]; ok {
			continue
		}
		seen[n.Language] = struct{}{}
		out = append(out, n.Language)
	}
	return out
}
