package ui

import (
	"context"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// Workspace is the part of the workspace coordinator the explorer drives.
type Workspace interface {
	Graph() *graph.Graph
	Active() (graph.Node, bool)
	Log() []collab.Line
	Path(id string) (string, bool)

	Select(id string) error
	ToggleFolder(id string) (bool, error)
	CreateFile(name, languageTag, parentID string) (graph.Node, error)
	CreateFolder(name, parentID string) (graph.Node, error)
	Delete(id string) ([]string, error)
	LoadTemplate(kind template.Kind) error
	GenerateGitignore() (graph.Node, error)

	Run(ctx context.Context) ([]collab.Line, error)
	Ask(ctx context.Context, prompt string) (string, error)
	ImportRemote(ctx context.Context, repoID string) ([]graph.Node, error)
}
