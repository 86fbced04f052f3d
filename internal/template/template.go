// Package template provides the starter workspaces offered on first run.
package template

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
)

// Kind names a starter template.
type Kind string

const (
	HTML   Kind = "html"
	Python Kind = "python"
	React  Kind = "react"
)

// ErrUnknownTemplate is returned for a Kind outside Kinds.
var ErrUnknownTemplate = errors.New("unknown template")

const htmlIndex = `<!DOCTYPE html>
<html>
<head>
  <title>Vault Preview</title>
<style>
  body { background: #020408; color: #6366f1; display: flex; flex-direction: column; justify-content: center; align-items: center; height: 100vh; font-family: sans-serif; margin: 0; }
  h1 { font-weight: 900; letter-spacing: -2px; font-size: 4rem; text-transform: uppercase; margin: 0; }
  p { font-size: 0.8rem; text-transform: uppercase; letter-spacing: 4px; opacity: 0.5; }
</style>
</head>
<body>
  <h1>VAULT</h1>
  <p>Workspace ready</p>
</body>
</html>`

const pythonMain = `print("Vault active")

def handshake():
    print("Workspace ready")

if __name__ == "__main__":
    handshake()`

const reactApp = `import React from "react";

export const App = () => {
  return (
    <div className="vault-ui">
      <h1>Vault Workspace</h1>
      <p>Environment initialized.</p>
    </div>
  );
};`

var templates = map[Kind]graph.Node{
	HTML:   {ID: "web-index", Name: "index.html", Kind: graph.KindFile, Language: "html", Content: htmlIndex},
	Python: {ID: "py-main", Name: "main.py", Kind: graph.KindFile, Language: "python", Content: pythonMain},
	React:  {ID: "tsx-main", Name: "App.tsx", Kind: graph.KindFile, Language: "typescript", Content: reactApp},
}

// Kinds lists the available templates in display order.
func Kinds() []Kind {
	return []Kind{HTML, Python, React}
}

// Load returns the nodes of a starter template. Every template is a single root-level File.
func Load(kind Kind) ([]graph.Node, error) {
	n, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, kind)
	}
	return []graph.Node{n}, nil
}
