package pathutil

import (
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/language"
)

// FolderMemo maps folder paths to node ids for the lifetime of one import, so each
// ancestor path is materialised as a folder at most once. Created folders are handed to
// emit in creation order; the memo never touches a graph directly.
type FolderMemo struct {
	ids   map[string]string
	newID func() string
	emit  func(graph.Node)
}

// NewFolderMemo creates an empty memo.
func NewFolderMemo(newID func() string, emit func(graph.Node)) *FolderMemo {
	if newID == nil {
		newID = graph.NewID
	}
	return &FolderMemo{
		ids:   make(map[string]string),
		newID: newID,
		emit:  emit,
	}
}

// Lookup returns the folder id recorded for path.
func (m *FolderMemo) Lookup(path string) (string, bool) {
	id, ok := m.ids[strings.Join(Segments(path), Separator)]
	return id, ok
}

// Remember records an existing folder id for path without creating anything.
func (m *FolderMemo) Remember(path, id string) {
	m.ids[strings.Join(Segments(path), Separator)] = id
}

// Ensure materialises every ancestor folder that is not memoised yet and returns the id
// of the innermost one, or "" when ancestors is empty.
func (m *FolderMemo) Ensure(ancestors []string) string {
	parentID := ""
	for i := range ancestors {
		parentID, _ = m.folder(ancestors[:i], ancestors[i], parentID)
	}
	return parentID
}

// EnsureFolder returns the id of the folder name below ancestors, creating it and any
// missing ancestor when needed. created reports whether the folder itself is new.
func (m *FolderMemo) EnsureFolder(ancestors []string, name string) (id string, created bool) {
	parentID := m.Ensure(ancestors)
	return m.folder(ancestors, name, parentID)
}

func (m *FolderMemo) folder(ancestors []string, name, parentID string) (string, bool) {
	path := JoinPath(name, ancestors)
	if id, ok := m.ids[path]; ok {
		return id, false
	}
	n := graph.Node{
		ID:       m.newID(),
		Name:     name,
		Kind:     graph.KindFolder,
		ParentID: parentID,
		Expanded: true,
		Language: language.Folder,
	}
	m.ids[path] = n.ID
	if m.emit != nil {
		m.emit(n)
	}
	return n.ID, true
}
