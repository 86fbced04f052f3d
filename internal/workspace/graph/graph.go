// Package graph holds the workspace file graph: a flat arena of file and folder nodes
// linked by parent references.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/language"
	"github.com/google/uuid"
)

// NewID returns a fresh opaque node id.
func NewID() string {
	return uuid.NewString()
}

// Graph is an arena of nodes indexed by id. Besides the parent reference stored on
// every node it maintains a parent -> children index so descendant queries do not
// rescan the arena. The zero value is not usable; call New.
//
// Graph is not safe for concurrent use. The workspace coordinator serialises access.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	children map[string][]string
	newID    func() string
}

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the id generator used by CreateFile and CreateFolder.
func WithIDGenerator(fn func() string) Option {
	return func(g *Graph) {
		g.newID = fn
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		newID:    NewID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromNodes builds a graph from a flat node list, keeping the list order.
// Parent references are accepted as-is; only duplicate ids are rejected.
func FromNodes(nodes []Node, opts ...Option) (*Graph, error) {
	g := New(opts...)
	if err := g.Add(nodes...); err != nil {
		return nil, err
	}
	return g, nil
}

// Add inserts already-built nodes. Either all nodes are added or none is.
func (g *Graph) Add(nodes ...Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: empty id", ErrDuplicateID)
		}
		if _, ok := g.nodes[n.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		if _, ok := seen[n.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, n := range nodes {
		g.insert(n)
	}
	return nil
}

func (g *Graph) insert(n Node) {
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
	g.children[n.ParentID] = append(g.children[n.ParentID], n.ID)
}

// Replace discards every node and loads the given list instead.
func (g *Graph) Replace(nodes []Node) error {
	fresh, err := FromNodes(nodes, WithIDGenerator(g.newID))
	if err != nil {
		return err
	}
	*g = *fresh
	return nil
}

// NewID returns an id from the graph's generator.
func (g *Graph) NewID() string {
	return g.newID()
}

// CreateFile adds a file node under parentID ("" for root). An empty languageTag is
// derived from the name.
func (g *Graph) CreateFile(name, languageTag, parentID string) (Node, error) {
	if err := g.checkCreate(name, parentID); err != nil {
		return Node{}, err
	}
	if languageTag == "" {
		languageTag = language.FromName(name)
	}
	n := Node{
		ID:       g.newID(),
		Name:     name,
		Kind:     KindFile,
		ParentID: parentID,
		Language: languageTag,
	}
	g.insert(n)
	return n, nil
}

// CreateFolder adds an expanded folder node under parentID ("" for root).
func (g *Graph) CreateFolder(name, parentID string) (Node, error) {
	if err := g.checkCreate(name, parentID); err != nil {
		return Node{}, err
	}
	n := Node{
		ID:       g.newID(),
		Name:     name,
		Kind:     KindFolder,
		ParentID: parentID,
		Expanded: true,
		Language: language.Folder,
	}
	g.insert(n)
	return n, nil
}

func (g *Graph) checkCreate(name, parentID string) error {
	if name == "" {
		return ErrNameRequired
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if parentID == "" {
		return nil
	}
	parent, ok := g.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	if !parent.IsFolder() {
		return fmt.Errorf("%w: %s", ErrParentNotFolder, parentID)
	}
	return nil
}

// Descendants returns the ids of every transitive descendant of id, breadth first.
func (g *Graph) Descendants(id string) []string {
	var out []string
	visited := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range g.children[current] {
			if _, ok := visited[child]; ok {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// DeleteSubtree removes id and all of its descendants and returns the removed ids,
// starting with id itself.
func (g *Graph) DeleteSubtree(id string) ([]string, error) {
	target, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	removed := append([]string{id}, g.Descendants(id)...)
	gone := make(map[string]struct{}, len(removed))
	for _, rid := range removed {
		gone[rid] = struct{}{}
		delete(g.nodes, rid)
		delete(g.children, rid)
	}

	siblings := g.children[target.ParentID]
	kept := siblings[:0]
	for _, sid := range siblings {
		if sid != id {
			kept = append(kept, sid)
		}
	}
	if len(kept) == 0 {
		delete(g.children, target.ParentID)
	} else {
		g.children[target.ParentID] = kept
	}

	order := g.order[:0]
	for _, oid := range g.order {
		if _, ok := gone[oid]; !ok {
			order = append(order, oid)
		}
	}
	g.order = order
	return removed, nil
}

// ToggleFolder flips the expanded flag of a folder and returns the new value.
func (g *Graph) ToggleFolder(id string) (bool, error) {
	n, ok := g.nodes[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if !n.IsFolder() {
		return false, fmt.Errorf("%w: %s", ErrNotAFolder, id)
	}
	n.Expanded = !n.Expanded
	return n.Expanded, nil
}

// SetContent replaces the content of a file node.
func (g *Graph) SetContent(id, content string) error {
	n, err := g.file(id)
	if err != nil {
		return err
	}
	n.Content = content
	return nil
}

// AppendContent appends text to a file on a new line.
func (g *Graph) AppendContent(id, text string) error {
	n, err := g.file(id)
	if err != nil {
		return err
	}
	n.Content = n.Content + "\n" + text
	return nil
}

func (g *Graph) file(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.IsFolder() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, id)
	}
	return n, nil
}

// Get returns a copy of the node with the given id.
func (g *Graph) Get(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Files returns copies of all file nodes in insertion order.
func (g *Graph) Files() []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; !n.IsFolder() {
			out = append(out, *n)
		}
	}
	return out
}

// Children returns the direct children of parentID ("" for root), folders first and
// then by name. Nodes whose parent is missing or is a file are listed under the root,
// matching how their paths resolve.
func (g *Graph) Children(parentID string) []Node {
	ids := g.children[parentID]
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, *g.nodes[id])
	}
	if parentID == "" {
		for key, orphans := range g.children {
			if key == "" {
				continue
			}
			if parent, ok := g.nodes[key]; ok && parent.IsFolder() {
				continue
			}
			for _, id := range orphans {
				out = append(out, *g.nodes[id])
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFolder() != out[j].IsFolder() {
			return out[i].IsFolder()
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	clone := New(WithIDGenerator(g.newID))
	for _, id := range g.order {
		clone.insert(*g.nodes[id])
	}
	return clone
}
