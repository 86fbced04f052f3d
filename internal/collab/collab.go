// Package collab defines the surfaces the workspace talks to but does not implement:
// the editor, the code runner and the coding assistant.
package collab

import (
	"context"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// LineType classifies an operation log line.
type LineType string

const (
	LineInfo    LineType = "info"
	LineSuccess LineType = "success"
	LineError   LineType = "error"
	LineInput   LineType = "input"
)

// Line is one entry of the operation log or of a run's output.
type Line struct {
	Type LineType `json:"type"`
	Text string   `json:"text"`
}

// Info, Success, Error and Input build lines of the matching type.
func Info(text string) Line    { return Line{Type: LineInfo, Text: text} }
func Success(text string) Line { return Line{Type: LineSuccess, Text: text} }
func Error(text string) Line   { return Line{Type: LineError, Text: text} }
func Input(text string) Line   { return Line{Type: LineInput, Text: text} }

// Editor receives the full content of the active file on every change.
type Editor interface {
	OnChange(content string) error
}

// RunRequest is the file handed to an Executor.
type RunRequest struct {
	Content  string
	Language string
	Filename string
}

// Executor runs a file and returns its finite output.
type Executor interface {
	Run(ctx context.Context, req RunRequest) ([]Line, error)
}

// Assistant turns a prompt into code to insert into the active file. active is nil
// when no file is selected.
type Assistant interface {
	Suggest(ctx context.Context, prompt string, active *graph.Node) (string, error)
}
