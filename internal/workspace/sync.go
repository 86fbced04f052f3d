package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/ignore"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/picker"
	"github.com/Cyclone1070/vault/internal/remote/github"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
)

// Operation names reported to metrics.
const (
	OpImportArchive = "import_archive"
	OpImportPicked  = "import_picked"
	OpImportRemote  = "import_remote"
	OpExportArchive = "export_archive"
	OpDeploy        = "deploy"
	OpRun           = "run"
	OpAsk           = "ask"
)

// Import sources reported to metrics.
const (
	SourceArchive = "archive"
	SourcePicker  = "picker"
	SourceRemote  = "remote"
)

// ImportArchive decodes a zip archive and appends its nodes to the workspace. The
// first imported File becomes the selection. Nothing is added when decoding fails.
func (w *Workspace) ImportArchive(data []byte) (nodes []graph.Node, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpImportArchive, started, err) }()

	if w.archive == nil {
		return nil, errors.New("archive codec not configured")
	}
	w.appendLog(collab.Info(fmt.Sprintf("[System] Decoding archive (%d bytes)...", len(data))))
	w.metrics.AddArchiveBytes("in", len(data))

	nodes, err = w.archive.Import(data)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Import Failed: %v", err)))
		return nil, err
	}
	if err := w.commitImport(nodes, false); err != nil {
		return nil, err
	}
	w.metrics.AddImported(SourceArchive, len(nodes))
	return nodes, nil
}

// ImportPicked imports locally picked files, including .zip picks. The first imported
// File becomes the selection.
func (w *Workspace) ImportPicked(picks []picker.Pick) (nodes []graph.Node, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpImportPicked, started, err) }()

	if w.picker == nil {
		return nil, errors.New("picker not configured")
	}
	nodes, err = w.picker.Import(picks)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Import Failed: %v", err)))
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	if err := w.commitImport(nodes, false); err != nil {
		return nil, err
	}
	w.metrics.AddImported(SourcePicker, len(nodes))
	return nodes, nil
}

// ImportRemote pulls every file of a remote repository into the workspace. All
// imported files are opened and the first one is selected.
func (w *Workspace) ImportRemote(ctx context.Context, repoID string) (nodes []graph.Node, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpImportRemote, started, err) }()

	if w.remote == nil {
		return nil, errors.New("remote sync not configured")
	}
	w.appendLog(collab.Info(fmt.Sprintf("[Git] PULL: Initiating recursive fetch for %s...", repoID)))

	nodes, err = w.remote.Import(ctx, repoID)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Import Failed: %v", err)))
		w.log.Warn("remote import failed", zap.String("repo", repoID), zap.Error(err))
		return nil, err
	}
	if err := w.commitImport(nodes, true); err != nil {
		return nil, err
	}
	w.metrics.AddImported(SourceRemote, len(nodes))
	return nodes, nil
}

// commitImport appends already-built nodes under the lock. Overlapping imports each
// land because nodes are added to the live graph rather than to a stale copy.
func (w *Workspace) commitImport(nodes []graph.Node, openAll bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.graph.Add(nodes...); err != nil {
		w.appendLocked(collab.Error(fmt.Sprintf("Import Failed: %v", err)))
		return err
	}
	var files []string
	for _, n := range nodes {
		if !n.IsFolder() {
			files = append(files, n.ID)
		}
	}
	if len(files) > 0 {
		w.activeID = files[0]
		if openAll {
			w.openLocked(files...)
		} else {
			w.openLocked(files[0])
		}
	}
	w.appendLocked(collab.Success(fmt.Sprintf("[System] Imported %d nodes successfully.", len(nodes))))
	w.commitLocked()
	return nil
}

// ExportArchive encodes every File into a zip archive keyed by resolved path.
func (w *Workspace) ExportArchive() (data []byte, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpExportArchive, started, err) }()

	if w.archive == nil {
		return nil, errors.New("archive codec not configured")
	}
	g, skip := w.snapshot()
	if len(g.Files()) == 0 {
		return nil, ErrNothingToSave
	}
	data, err = w.archive.Export(g, skip)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Export Failed: %v", err)))
		return nil, err
	}
	w.metrics.AddArchiveBytes("out", len(data))
	w.appendLog(collab.Success(fmt.Sprintf("[System] Exported archive (%d bytes).", len(data))))
	return data, nil
}

// snapshot copies the graph and builds the path filter used by export and deploy.
func (w *Workspace) snapshot() (*graph.Graph, func(path string) bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	g := w.graph.Clone()
	if !w.cfg.Archive.RespectGitignore {
		return g, nil
	}
	m := ignore.FromGraph(g)
	if m == nil {
		return g, nil
	}
	return g, m.ShouldIgnore
}

// Deploy pushes the workspace to a new remote repository. Credentials are checked
// before anything is sent. On success a snapshot is recorded at the head of the push
// history; on failure the persistence indicator is set to error.
func (w *Workspace) Deploy(ctx context.Context, creds github.Credentials, projectName string) (result *github.DeployResult, err error) {
	started := time.Now()
	defer func() { w.metrics.ObserveOperation(OpDeploy, started, err) }()

	if w.remote == nil {
		return nil, errors.New("remote sync not configured")
	}
	if err := w.remote.Authorize(creds); err != nil {
		w.appendLog(collab.Error("[Git] Valid personal access token required for sync."))
		return nil, err
	}

	w.appendLog(collab.Info("[Git] Handshaking with GitHub..."))
	g, skip := w.snapshot()
	result, err = w.remote.Deploy(ctx, creds, projectName, g, skip)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Deployment Failed: %v", err)))
		w.log.Error("deploy failed", zap.String("project", projectName), zap.Error(err))
		if w.observer != nil {
			w.observer.MarkError()
		}
		return nil, err
	}
	w.metrics.AddDeployed(len(result.Uploaded))

	w.mu.Lock()
	defer w.mu.Unlock()
	snap := persist.Snapshot{
		ID:        w.newID(),
		Message:   "Pushed to GitHub: " + result.Name,
		Timestamp: w.now().UnixMilli(),
		Branch:    "main",
		Digest:    result.Digest,
	}
	w.snapshots = append([]persist.Snapshot{snap}, w.snapshots...)
	w.appendLocked(collab.Success("[System] Repository pushed to " + result.URL))
	w.log.Info("deployed", zap.String("repo", result.Name), zap.Int("files", len(result.Uploaded)))
	w.commitLocked()
	return result, nil
}
