package workspace

import (
	"fmt"
	"slices"

	"github.com/Cyclone1070/vault/internal/collab"
	"github.com/Cyclone1070/vault/internal/ignore"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
)

// CreateFile adds a File under parentID ("" for root), selects it and opens it.
// An empty languageTag is derived from the name.
func (w *Workspace) CreateFile(name, languageTag, parentID string) (graph.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.graph.CreateFile(name, languageTag, parentID)
	if err != nil {
		w.appendLocked(collab.Error(fmt.Sprintf("Create file failed: %v", err)))
		return graph.Node{}, err
	}
	w.activeID = n.ID
	w.openLocked(n.ID)
	w.commitLocked()
	return n, nil
}

// CreateFolder adds an expanded Folder under parentID ("" for root).
func (w *Workspace) CreateFolder(name, parentID string) (graph.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.graph.CreateFolder(name, parentID)
	if err != nil {
		w.appendLocked(collab.Error(fmt.Sprintf("Create folder failed: %v", err)))
		return graph.Node{}, err
	}
	w.commitLocked()
	return n, nil
}

// Delete removes id and all of its descendants. Removed files are closed and the
// selection is cleared when it was removed.
func (w *Workspace) Delete(id string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed, err := w.graph.DeleteSubtree(id)
	if err != nil {
		w.appendLocked(collab.Error(fmt.Sprintf("Delete failed: %v", err)))
		return nil, err
	}
	w.openIDs = slices.DeleteFunc(w.openIDs, func(open string) bool {
		return slices.Contains(removed, open)
	})
	if slices.Contains(removed, w.activeID) {
		w.activeID = ""
	}
	w.commitLocked()
	return removed, nil
}

// ToggleFolder flips a folder between expanded and collapsed.
func (w *Workspace) ToggleFolder(id string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	expanded, err := w.graph.ToggleFolder(id)
	if err != nil {
		return false, err
	}
	w.commitLocked()
	return expanded, nil
}

// Select makes a File the active selection and opens it.
func (w *Workspace) Select(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, ok := w.graph.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
	}
	if n.IsFolder() {
		return fmt.Errorf("%w: %s", graph.ErrNotAFile, id)
	}
	w.activeID = id
	w.openLocked(id)
	w.commitLocked()
	return nil
}

// CloseTab closes an open file. Closing the active file selects the most recently
// opened remaining tab.
func (w *Workspace) CloseTab(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := slices.Index(w.openIDs, id)
	if idx < 0 {
		return
	}
	w.openIDs = slices.Delete(w.openIDs, idx, idx+1)
	if w.activeID == id {
		w.activeID = ""
		if len(w.openIDs) > 0 {
			w.activeID = w.openIDs[len(w.openIDs)-1]
		}
	}
	w.commitLocked()
}

// SetContent replaces the content of a File.
func (w *Workspace) SetContent(id, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.graph.SetContent(id, content); err != nil {
		return err
	}
	w.commitLocked()
	return nil
}

// EditActive replaces the content of the active File.
func (w *Workspace) EditActive(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.activeID == "" {
		return ErrNoActiveFile
	}
	if err := w.graph.SetContent(w.activeID, content); err != nil {
		return err
	}
	w.commitLocked()
	return nil
}

// OnChange implements collab.Editor.
func (w *Workspace) OnChange(content string) error {
	return w.EditActive(content)
}

// InsertIntoActive appends code to the active File on a new line.
func (w *Workspace) InsertIntoActive(code string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.activeID == "" {
		return ErrNoActiveFile
	}
	if err := w.graph.AppendContent(w.activeID, code); err != nil {
		return err
	}
	w.commitLocked()
	return nil
}

// LoadTemplate replaces the whole workspace with a starter template whose file becomes
// the selection and the only open tab.
func (w *Workspace) LoadTemplate(kind template.Kind) error {
	nodes, err := template.Load(kind)
	if err != nil {
		w.appendLog(collab.Error(fmt.Sprintf("Template failed: %v", err)))
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.graph.Replace(nodes); err != nil {
		return err
	}
	w.openIDs = nil
	for _, n := range nodes {
		w.openIDs = append(w.openIDs, n.ID)
	}
	w.activeID = nodes[0].ID
	w.appendLocked(collab.Success(fmt.Sprintf("[System] Loaded %s template.", kind)))
	w.commitLocked()
	return nil
}

// GenerateGitignore writes a .gitignore matching the languages in the workspace. An
// existing root .gitignore is rewritten; otherwise a new one is created. Either way
// it becomes the selection.
func (w *Workspace) GenerateGitignore() (graph.Node, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.appendLocked(collab.Info("[Shield] Scanning workspace for language fingerprints..."))
	content := ignore.Template(ignore.Languages(w.graph))

	for _, n := range w.graph.Children("") {
		if n.IsFolder() || n.Name != ignore.FileName {
			continue
		}
		if err := w.graph.SetContent(n.ID, content); err != nil {
			return graph.Node{}, err
		}
		w.activeID = n.ID
		w.openLocked(n.ID)
		w.appendLocked(collab.Success("[Shield] Existing .gitignore updated."))
		w.commitLocked()
		updated, _ := w.graph.Get(n.ID)
		return updated, nil
	}

	n, err := w.graph.CreateFile(ignore.FileName, "", "")
	if err != nil {
		return graph.Node{}, err
	}
	if err := w.graph.SetContent(n.ID, content); err != nil {
		return graph.Node{}, err
	}
	w.activeID = n.ID
	w.openLocked(n.ID)
	w.appendLocked(collab.Success("[Shield] New .gitignore generated."))
	w.log.Debug("generated gitignore", zap.Int("bytes", len(content)))
	w.commitLocked()
	created, _ := w.graph.Get(n.ID)
	return created, nil
}
