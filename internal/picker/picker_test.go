package picker

import (
	"bytes"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/Cyclone1070/vault/internal/archive"
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestImporter() *Importer {
	cfg := config.ArchiveConfig{MaxEntrySize: 1024}
	codec := archive.NewCodec(cfg, archive.WithIDGenerator(sequentialIDs("z")))
	return NewImporter(cfg, codec, WithIDGenerator(sequentialIDs("p")))
}

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func paths(t *testing.T, nodes []graph.Node) map[string]string {
	t.Helper()
	g, err := graph.FromNodes(nodes)
	require.NoError(t, err)
	out := map[string]string{}
	for _, n := range g.Files() {
		out[pathutil.BuildPath(g, n)] = n.Content
	}
	return out
}

func TestImport_SharedFoldersAcrossPicks(t *testing.T) {
	picks := []Pick{
		{RelativePath: "proj/src/a.js", Content: []byte("a")},
		{RelativePath: "proj/src/b.js", Content: []byte("b")},
		{RelativePath: "proj/README.md", Content: []byte("r")},
	}

	nodes, err := newTestImporter().Import(picks)

	require.NoError(t, err)
	var folders []string
	for _, n := range nodes {
		if n.IsFolder() {
			folders = append(folders, n.Name)
		}
	}
	assert.Equal(t, []string{"proj", "src"}, folders)
	assert.Equal(t, map[string]string{
		"proj/src/a.js":  "a",
		"proj/src/b.js":  "b",
		"proj/README.md": "r",
	}, paths(t, nodes))
}

func TestImport_ZipPickSharesMemo(t *testing.T) {
	picks := []Pick{
		{RelativePath: "src/main.py", Content: []byte("m")},
		{RelativePath: "bundle.zip", Content: zipOf(t, map[string]string{"src/util.py": "u"})},
	}

	nodes, err := newTestImporter().Import(picks)

	require.NoError(t, err)
	folders := 0
	for _, n := range nodes {
		if n.IsFolder() {
			folders++
		}
	}
	assert.Equal(t, 1, folders)
	assert.Equal(t, map[string]string{"src/main.py": "m", "src/util.py": "u"}, paths(t, nodes))
}

func TestImport_BadZipAbortsEverything(t *testing.T) {
	picks := []Pick{
		{RelativePath: "ok.txt", Content: []byte("fine")},
		{RelativePath: "broken.zip", Content: []byte("nope")},
	}

	nodes, err := newTestImporter().Import(picks)

	var decodeErr *archive.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Nil(t, nodes)
}

func TestImport_BinaryPickSkipped(t *testing.T) {
	nodes, err := newTestImporter().Import([]Pick{
		{RelativePath: "site/img.png", Content: []byte{0x89, 0xff, 0xfe}},
		{RelativePath: "site/index.html", Content: []byte("<html></html>")},
	})

	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].IsFolder())
	assert.Equal(t, "site", nodes[0].Name)
	assert.Equal(t, "index.html", nodes[1].Name)
	assert.Equal(t, "<html></html>", nodes[1].Content)
}

func TestImport_SkipsUnsafePaths(t *testing.T) {
	nodes, err := newTestImporter().Import([]Pick{
		{RelativePath: "../up.txt", Content: []byte("x")},
		{RelativePath: "", Content: []byte("x")},
		{RelativePath: "fine.txt", Content: []byte("x")},
	})

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "fine.txt", nodes[0].Name)
	assert.Equal(t, "plaintext", nodes[0].Language)
}

func TestWalkFS(t *testing.T) {
	fsys := fstest.MapFS{
		"main.go":        {Data: []byte("package main")},
		"pkg/util.go":    {Data: []byte("package pkg")},
		".git/HEAD":      {Data: []byte("ref")},
		"pkg/.gitignore": {Data: []byte("*.tmp")},
	}

	picks, err := WalkFS(fsys, "proj")

	require.NoError(t, err)
	got := map[string]string{}
	for _, p := range picks {
		got[p.RelativePath] = string(p.Content)
	}
	assert.Equal(t, map[string]string{
		"proj/main.go":        "package main",
		"proj/pkg/util.go":    "package pkg",
		"proj/pkg/.gitignore": "*.tmp",
	}, got)
}
