// Package workspace is the coordinator that owns the file graph, the selection, the
// open tabs, the push history and the operation log. Every mutation goes through one
// lock and is handed to the persistence observer once committed.
package workspace

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/metrics"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/picker"
	"github.com/Cyclone1070/vault/internal/remote/github"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"go.uber.org/zap"
)

// Observer is told about every committed state. The persistence store satisfies it.
type Observer interface {
	Observe(doc persist.Document)
	MarkError()
}

type archiveCodec interface {
	Export(g *graph.Graph, skip func(path string) bool) ([]byte, error)
	Import(data []byte) ([]graph.Node, error)
}

type pickerImporter interface {
	Import(picks []picker.Pick) ([]graph.Node, error)
}

type remoteSync interface {
	Authorize(creds github.Credentials) error
	Import(ctx context.Context, repoID string) ([]graph.Node, error)
	Deploy(ctx context.Context, creds github.Credentials, projectName string, g *graph.Graph, skip func(path string) bool) (*github.DeployResult, error)
}

type recorder interface {
	ObserveOperation(op string, started time.Time, err error)
	AddImported(source string, n int)
	AddDeployed(n int)
	AddArchiveBytes(direction string, n int)
	SetNodes(n int)
}

// Dependencies are the collaborators of a Workspace. Only Config is required; a nil
// collaborator disables the operations that need it.
type Dependencies struct {
	Config    *config.Config
	Observer  Observer
	Archive   archiveCodec
	Picker    pickerImporter
	Remote    remoteSync
	Executor  collab.Executor
	Assistant collab.Assistant
	Metrics   recorder
	Logger    *zap.Logger
	Clock     func() time.Time
	NewID     func() string
}

// Workspace is the explicit workspace context. It is safe for concurrent use.
type Workspace struct {
	mu        sync.Mutex
	graph     *graph.Graph
	activeID  string
	openIDs   []string
	snapshots []persist.Snapshot
	lines     []collab.Line

	cfg       *config.Config
	observer  Observer
	archive   archiveCodec
	picker    pickerImporter
	remote    remoteSync
	executor  collab.Executor
	assistant collab.Assistant
	metrics   recorder
	log       *zap.Logger
	now       func() time.Time
	newID     func() string
}

// New builds a workspace from a loaded document. Open tabs and the selection are
// cleaned of ids that no longer name a File.
func New(doc persist.Document, deps Dependencies) (*Workspace, error) {
	w := &Workspace{
		cfg:       deps.Config,
		observer:  deps.Observer,
		archive:   deps.Archive,
		picker:    deps.Picker,
		remote:    deps.Remote,
		executor:  deps.Executor,
		assistant: deps.Assistant,
		metrics:   deps.Metrics,
		log:       logging.OrNop(deps.Logger),
		now:       deps.Clock,
		newID:     deps.NewID,
	}
	if w.cfg == nil {
		w.cfg = config.DefaultConfig()
	}
	if w.metrics == nil {
		w.metrics = (*metrics.Metrics)(nil)
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.newID == nil {
		w.newID = graph.NewID
	}

	g, err := graph.FromNodes(doc.Files, graph.WithIDGenerator(w.newID))
	if err != nil {
		return nil, err
	}
	w.graph = g
	for _, id := range doc.OpenIDs {
		if w.isFile(id) && !slices.Contains(w.openIDs, id) {
			w.openIDs = append(w.openIDs, id)
		}
	}
	if w.isFile(doc.ActiveID) {
		w.activeID = doc.ActiveID
	}
	w.snapshots = slices.Clone(doc.Snapshots)
	w.metrics.SetNodes(g.Len())
	return w, nil
}

func (w *Workspace) isFile(id string) bool {
	n, ok := w.graph.Get(id)
	return ok && !n.IsFolder()
}

// commitLocked publishes the current state. Callers hold w.mu.
func (w *Workspace) commitLocked() {
	w.metrics.SetNodes(w.graph.Len())
	if w.observer != nil {
		w.observer.Observe(w.documentLocked())
	}
}

func (w *Workspace) appendLocked(lines ...collab.Line) {
	w.lines = append(w.lines, lines...)
}

func (w *Workspace) appendLog(lines ...collab.Line) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.appendLocked(lines...)
}

func (w *Workspace) openLocked(ids ...string) {
	for _, id := range ids {
		if !slices.Contains(w.openIDs, id) {
			w.openIDs = append(w.openIDs, id)
		}
	}
}

func (w *Workspace) documentLocked() persist.Document {
	return persist.Document{
		Files:     w.graph.Nodes(),
		ActiveID:  w.activeID,
		OpenIDs:   slices.Clone(w.openIDs),
		Snapshots: slices.Clone(w.snapshots),
	}
}

// State returns a deep copy of the durable state.
func (w *Workspace) State() persist.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.documentLocked()
}

// Graph returns a deep copy of the file graph for rendering.
func (w *Workspace) Graph() *graph.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Clone()
}

// Log returns a copy of the operation log.
func (w *Workspace) Log() []collab.Line {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.lines)
}

// Active returns the selected File.
func (w *Workspace) Active() (graph.Node, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activeID == "" {
		return graph.Node{}, false
	}
	return w.graph.Get(w.activeID)
}

// OpenIDs returns the open tabs in opening order.
func (w *Workspace) OpenIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.openIDs)
}

// Snapshots returns the push history, newest first.
func (w *Workspace) Snapshots() []persist.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.snapshots)
}

// Find resolves a slash path to a node.
func (w *Workspace) Find(path string) (graph.Node, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return pathutil.Find(w.graph, path)
}

// Path returns the resolved path of a node.
func (w *Workspace) Path(id string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.graph.Get(id)
	if !ok {
		return "", false
	}
	return pathutil.BuildPath(w.graph, n), true
}
