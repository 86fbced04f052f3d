// Package models holds the state rendered by the explorer views.
package models

import (
	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Row is one visible line of the file tree.
type Row struct {
	Node  graph.Node
	Depth int
}

// Prompt is the question the input bar is currently answering.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptNewFile
	PromptNewFolder
	PromptConfirmDelete
	PromptAsk
	PromptPull
)

// State is everything the explorer draws.
type State struct {
	Width  int
	Height int

	Rows       []Row
	Cursor     int
	ActiveID   string
	ActivePath string

	Viewport viewport.Model
	Input    textinput.Model
	Spinner  spinner.Model
	Prompt   Prompt

	Busy      bool
	BusyLabel string
	DotCount  int

	SaveStatus persist.Status
	Log        []collab.Line

	ShowTemplates bool
	Templates     []string
	TemplateIndex int
}

// Selected returns the row under the cursor.
func (s State) Selected() (Row, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Rows) {
		return Row{}, false
	}
	return s.Rows[s.Cursor], true
}
