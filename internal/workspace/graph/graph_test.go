package graph

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("n%d", n)
	})
}

func TestCreateFile_DerivesLanguage(t *testing.T) {
	g := New(sequentialIDs())

	f, err := g.CreateFile("main.py", "", "")

	require.NoError(t, err)
	assert.Equal(t, "n1", f.ID)
	assert.Equal(t, "python", f.Language)
	assert.Equal(t, KindFile, f.Kind)
	assert.Empty(t, f.ParentID)
}

func TestCreateFile_ExplicitLanguageWins(t *testing.T) {
	g := New(sequentialIDs())

	f, err := g.CreateFile("notes", "markdown", "")

	require.NoError(t, err)
	assert.Equal(t, "markdown", f.Language)
}

func TestCreateFolder_StartsExpanded(t *testing.T) {
	g := New(sequentialIDs())

	d, err := g.CreateFolder("src", "")

	require.NoError(t, err)
	assert.True(t, d.Expanded)
	assert.True(t, d.IsFolder())
	assert.Equal(t, "folder", d.Language)
}

func TestCreate_RejectsBadParents(t *testing.T) {
	g := New(sequentialIDs())
	f, err := g.CreateFile("a.txt", "", "")
	require.NoError(t, err)

	_, err = g.CreateFile("b.txt", "", "missing")
	assert.ErrorIs(t, err, ErrParentNotFound)

	_, err = g.CreateFolder("sub", f.ID)
	assert.ErrorIs(t, err, ErrParentNotFolder)

	_, err = g.CreateFile("", "", "")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = g.CreateFile("a/b.txt", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Equal(t, 1, g.Len())
}

func TestDeleteSubtree_RemovesAllDescendants(t *testing.T) {
	g := New(sequentialIDs())
	src, _ := g.CreateFolder("src", "")
	lib, _ := g.CreateFolder("lib", src.ID)
	deep, _ := g.CreateFile("deep.go", "", lib.ID)
	top, _ := g.CreateFile("top.go", "", src.ID)
	other, _ := g.CreateFile("README.md", "", "")

	removed, err := g.DeleteSubtree(src.ID)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{src.ID, lib.ID, deep.ID, top.ID}, removed)
	assert.Equal(t, 1, g.Len())
	_, ok := g.Get(other.ID)
	assert.True(t, ok)

	gone := map[string]bool{}
	for _, id := range removed {
		gone[id] = true
	}
	for _, n := range g.Nodes() {
		assert.False(t, gone[n.ParentID], "node %s still points at a removed parent", n.ID)
	}
	assert.Empty(t, g.Descendants(src.ID))
}

func TestDeleteSubtree_UnknownID(t *testing.T) {
	g := New()

	_, err := g.DeleteSubtree("nope")

	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDeleteSubtree_LeavesSiblingsIndexed(t *testing.T) {
	g := New(sequentialIDs())
	a, _ := g.CreateFile("a.txt", "", "")
	b, _ := g.CreateFile("b.txt", "", "")

	_, err := g.DeleteSubtree(a.ID)
	require.NoError(t, err)

	children := g.Children("")
	require.Len(t, children, 1)
	assert.Equal(t, b.ID, children[0].ID)
}

func TestToggleFolder(t *testing.T) {
	g := New(sequentialIDs())
	d, _ := g.CreateFolder("src", "")
	f, _ := g.CreateFile("a.txt", "", "")

	expanded, err := g.ToggleFolder(d.ID)
	require.NoError(t, err)
	assert.False(t, expanded)

	expanded, err = g.ToggleFolder(d.ID)
	require.NoError(t, err)
	assert.True(t, expanded)

	_, err = g.ToggleFolder(f.ID)
	assert.ErrorIs(t, err, ErrNotAFolder)
}

func TestSetContent_OnlyTouchesContent(t *testing.T) {
	g := New(sequentialIDs())
	d, _ := g.CreateFolder("src", "")
	f, _ := g.CreateFile("a.ts", "", d.ID)

	require.NoError(t, g.SetContent(f.ID, "let x = 1"))

	got, _ := g.Get(f.ID)
	assert.Equal(t, "let x = 1", got.Content)
	assert.Equal(t, f.Name, got.Name)
	assert.Equal(t, f.ParentID, got.ParentID)
	assert.Equal(t, f.Language, got.Language)

	assert.ErrorIs(t, g.SetContent(d.ID, "x"), ErrNotAFile)
}

func TestAppendContent(t *testing.T) {
	g := New(sequentialIDs())
	f, _ := g.CreateFile("a.py", "", "")
	require.NoError(t, g.SetContent(f.ID, "print(1)"))

	require.NoError(t, g.AppendContent(f.ID, "print(2)"))

	got, _ := g.Get(f.ID)
	assert.Equal(t, "print(1)\nprint(2)", got.Content)
}

func TestChildren_FoldersFirstThenName(t *testing.T) {
	g := New(sequentialIDs())
	_, _ = g.CreateFile("b.txt", "", "")
	_, _ = g.CreateFolder("zeta", "")
	_, _ = g.CreateFile("A.txt", "", "")
	_, _ = g.CreateFolder("alpha", "")

	var names []string
	for _, n := range g.Children("") {
		names = append(names, n.Name)
	}

	assert.Equal(t, []string{"alpha", "zeta", "A.txt", "b.txt"}, names)
}

func TestChildren_OrphansListedAtRoot(t *testing.T) {
	g, err := FromNodes([]Node{
		{ID: "f1", Name: "lost.txt", ParentID: "gone"},
		{ID: "f2", Name: "root.txt"},
	})
	require.NoError(t, err)

	assert.Len(t, g.Children(""), 2)
}

func TestFromNodes_RejectsDuplicates(t *testing.T) {
	_, err := FromNodes([]Node{{ID: "x", Name: "a"}, {ID: "x", Name: "b"}})

	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAdd_IsAllOrNothing(t *testing.T) {
	g := New(sequentialIDs())
	existing, _ := g.CreateFile("a.txt", "", "")

	err := g.Add(Node{ID: "fresh", Name: "b.txt"}, Node{ID: existing.ID, Name: "c.txt"})

	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, g.Len())
}

func TestClone_IsIndependent(t *testing.T) {
	g := New(sequentialIDs())
	f, _ := g.CreateFile("a.txt", "", "")

	clone := g.Clone()
	require.NoError(t, clone.SetContent(f.ID, "changed"))

	orig, _ := g.Get(f.ID)
	assert.Empty(t, orig.Content)
}

func TestNodeJSON_Layout(t *testing.T) {
	folder := Node{ID: "d", Name: "src", Kind: KindFolder, Expanded: true, Language: "folder"}
	file := Node{ID: "f", Name: "a.ts", ParentID: "d", Language: "typescript", Content: "x"}

	data, err := json.Marshal([]Node{folder, file})
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":"d","name":"src","language":"folder","content":"","isFolder":true,"isOpen":true,"parentId":null},
		{"id":"f","name":"a.ts","language":"typescript","content":"x","isOpen":true,"parentId":"d"}
	]`, string(data))

	var back []Node
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Node{folder, file}, back)
}
