package archive

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
}

func newTestCodec(maxEntry int64) *Codec {
	return NewCodec(config.ArchiveConfig{MaxEntrySize: maxEntry}, WithIDGenerator(sequentialIDs()))
}

type zipEntry struct {
	name    string
	content []byte
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func pathsOf(t *testing.T, nodes []graph.Node) map[string]string {
	t.Helper()
	g, err := graph.FromNodes(nodes)
	require.NoError(t, err)
	out := make(map[string]string)
	for _, n := range g.Files() {
		out[pathutil.BuildPath(g, n)] = n.Content
	}
	return out
}

func TestImport_DirectoryEntryAndFile(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "src/a.ts", content: []byte("x")},
		zipEntry{name: "src/"},
	)

	nodes, err := newTestCodec(1024).Import(data)

	require.NoError(t, err)
	require.Len(t, nodes, 2)
	folder, file := nodes[0], nodes[1]
	assert.True(t, folder.IsFolder())
	assert.Equal(t, "src", folder.Name)
	assert.Empty(t, folder.ParentID)
	assert.True(t, folder.Expanded)
	assert.Equal(t, "a.ts", file.Name)
	assert.Equal(t, folder.ID, file.ParentID)
	assert.Equal(t, "typescript", file.Language)
	assert.Equal(t, "x", file.Content)
}

func TestImport_MaterialisesMissingAncestorsOnce(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "app/lib/b.py", content: []byte("b")},
		zipEntry{name: "app/lib/a.py", content: []byte("a")},
		zipEntry{name: "app/main.py", content: []byte("m")},
	)

	nodes, err := newTestCodec(1024).Import(data)

	require.NoError(t, err)
	folders := 0
	for _, n := range nodes {
		if n.IsFolder() {
			folders++
		}
	}
	assert.Equal(t, 2, folders)
	assert.Equal(t, map[string]string{
		"app/lib/b.py": "b",
		"app/lib/a.py": "a",
		"app/main.py":  "m",
	}, pathsOf(t, nodes))
}

func TestExportImport_RoundTrip(t *testing.T) {
	g := graph.New()
	src, err := g.CreateFolder("src", "")
	require.NoError(t, err)
	_, err = g.CreateFolder("empty", "")
	require.NoError(t, err)
	main, err := g.CreateFile("main.go", "", src.ID)
	require.NoError(t, err)
	require.NoError(t, g.SetContent(main.ID, "package main\n"))
	readme, err := g.CreateFile("README.md", "", "")
	require.NoError(t, err)
	require.NoError(t, g.SetContent(readme.ID, "# hi"))

	codec := newTestCodec(1024)
	data, err := codec.Export(g, nil)
	require.NoError(t, err)
	nodes, err := codec.Import(data)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"src/main.go": "package main\n",
		"README.md":   "# hi",
	}, pathsOf(t, nodes))
	for _, n := range nodes {
		assert.NotEqual(t, "empty", n.Name, "empty folders are not exported")
	}
}

func TestExport_SkipFilter(t *testing.T) {
	g := graph.New()
	_, _ = g.CreateFile("keep.txt", "", "")
	_, _ = g.CreateFile("drop.log", "", "")

	data, err := newTestCodec(1024).Export(g, func(path string) bool { return path == "drop.log" })
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "keep.txt", zr.File[0].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)
}

func TestImport_CorruptContainer(t *testing.T) {
	nodes, err := newTestCodec(1024).Import([]byte("not a zip"))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Empty(t, decodeErr.Entry)
	assert.Nil(t, nodes)
}

func TestImport_SkipsBinaryEntries(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "ok.txt", content: []byte("fine")},
		zipEntry{name: "assets/favicon.png", content: []byte{0x89, 0xff, 0xfe, 0x00}},
	)

	nodes, err := newTestCodec(1024).Import(data)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ok.txt": "fine"}, pathsOf(t, nodes))
}

func TestImport_TooLargeAbortsWholeArchive(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "ok.txt", content: []byte("fine")},
		zipEntry{name: "bin/blob.dat", content: bytes.Repeat([]byte("a"), 64)},
	)

	nodes, err := newTestCodec(16).Import(data)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "bin/blob.dat", decodeErr.Entry)
	assert.Nil(t, nodes)
}

func TestImport_EntryTooLarge(t *testing.T) {
	data := buildZip(t, zipEntry{name: "big.txt", content: bytes.Repeat([]byte("a"), 64)})

	_, err := newTestCodec(16).Import(data)

	assert.ErrorIs(t, err, ErrEntryTooLarge)
}

func TestImport_SkipsUnsafeEntries(t *testing.T) {
	data := buildZip(t,
		zipEntry{name: "../evil.sh", content: []byte("rm")},
		zipEntry{name: "/abs.txt", content: []byte("a")},
		zipEntry{name: "safe.txt", content: []byte("s")},
	)

	nodes, err := newTestCodec(1024).Import(data)

	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "safe.txt", nodes[0].Name)
}

func TestImportInto_SharedMemo(t *testing.T) {
	var nodes []graph.Node
	emit := func(n graph.Node) { nodes = append(nodes, n) }
	memo := pathutil.NewFolderMemo(nil, emit)
	existing, _ := memo.EnsureFolder(nil, "src")
	codec := newTestCodec(1024)

	err := codec.ImportInto(buildZip(t, zipEntry{name: "src/x.js", content: []byte("1")}), memo, emit)
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, existing, nodes[1].ParentID)
}
