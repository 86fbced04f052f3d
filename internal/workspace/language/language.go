// Package language classifies workspace files by extension.
package language

import "strings"

const (
	// Plaintext is the tag for files whose extension is not in the table.
	Plaintext = "plaintext"
	// Folder is the tag carried by folder nodes.
	Folder = "folder"
)

var byExtension = map[string]string{
	"py":   "python",
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"css":  "css",
	"html": "html",
	"md":   "markdown",
	"json": "json",
	"sh":   "shell",
	"java": "java",
	"rs":   "rust",
	"rust": "rust",
	"go":   "go",
	"rb":   "ruby",
	"yml":  "yaml",
	"yaml": "yaml",
}

// FromName returns the language tag for a file name, taken from the text after the last dot.
// A name without a dot is looked up whole, so "Makefile" resolves to Plaintext.
func FromName(name string) string {
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	if tag, ok := byExtension[strings.ToLower(ext)]; ok {
		return tag
	}
	return Plaintext
}
