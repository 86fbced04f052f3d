// Package ignore generates .gitignore content for a workspace and matches workspace
// paths against it.
package ignore

import (
	"slices"
	"strings"
)

// FileName is the name of the ignore file at the workspace root.
const FileName = ".gitignore"

const header = "# Auto-generated .gitignore\n# vault workspace\n\n"

var common = []string{
	".DS_Store",
	"Thumbs.db",
	".env",
	".env.local",
	".env.development.local",
	".env.test.local",
	".env.production.local",
}

type section struct {
	title     string
	languages []string
	patterns  []string
}

var sections = []section{
	{
		title:     "Node.js",
		languages: []string{"javascript", "typescript"},
		patterns: []string{
			"node_modules/", "npm-debug.log*", "yarn-debug.log*", "yarn-error.log*",
			".pnpm-debug.log*", ".npm/", "build/", "dist/", ".next/",
		},
	},
	{
		title:     "Python",
		languages: []string{"python"},
		patterns: []string{
			"__pycache__/", "*.py[cod]", "*$py.class", ".venv/", "venv/", "ENV/",
			".pytest_cache/", ".coverage", "htmlcov/",
		},
	},
	{
		title:     "Java",
		languages: []string{"java"},
		patterns: []string{
			"*.class", "*.log", "*.jar", "*.war", "*.ear", ".gradle/", "build/", "bin/",
		},
	},
}

// Template returns .gitignore content for the given language tags. The common OS and env
// entries are always present; each ecosystem section is added when one of its languages is.
func Template(languages []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Join(common, "\n"))
	b.WriteString("\n\n")

	for _, s := range sections {
		if !slices.ContainsFunc(s.languages, func(l string) bool { return slices.Contains(languages, l) }) {
			continue
		}
		b.WriteString("# " + s.title + "\n")
		b.WriteString(strings.Join(s.patterns, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}
