package services

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns markdown into terminal output.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders markdown with glamour. An empty style picks one from the
// terminal background.
type GlamourRenderer struct {
	Style string
}

// Render implements MarkdownRenderer.
func (r GlamourRenderer) Render(content string, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if r.Style != "" {
		style = glamour.WithStandardStyle(r.Style)
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return tr.Render(content)
}

// PreviewMarkdown returns the markdown shown for a file: markdown files as-is, anything
// else as a fenced block tagged with its language so it gets highlighted.
func PreviewMarkdown(n graph.Node) string {
	if n.Language == "markdown" {
		return n.Content
	}
	fence := "```"
	for strings.Contains(n.Content, fence) {
		fence += "`"
	}
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString(n.Language)
	sb.WriteString("\n")
	sb.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n")
	return sb.String()
}

// RenderPreview renders a file for the preview pane. Falls back to the raw content
// when rendering fails.
func RenderPreview(n graph.Node, width int, renderer MarkdownRenderer) string {
	if renderer == nil {
		return n.Content
	}
	out, err := renderer.Render(PreviewMarkdown(n), width)
	if err != nil {
		return n.Content
	}
	return out
}
