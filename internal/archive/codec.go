// Package archive converts between workspace File nodes and zip archives.
package archive

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/language"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// Codec encodes File nodes into zip archives and decodes archives into nodes.
type Codec struct {
	maxEntrySize int64
	newID        func() string
	now          func() time.Time
	log          *zap.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithIDGenerator replaces the id generator for decoded nodes.
func WithIDGenerator(fn func() string) Option {
	return func(c *Codec) { c.newID = fn }
}

// WithClock replaces the clock used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) { c.log = logging.OrNop(l) }
}

// NewCodec creates a Codec from the archive config.
func NewCodec(cfg config.ArchiveConfig, opts ...Option) *Codec {
	c := &Codec{
		maxEntrySize: cfg.MaxEntrySize,
		newID:        graph.NewID,
		now:          time.Now,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Export writes every File node of g into a deflate-compressed zip keyed by its resolved
// path. Folders are not written, so empty folders do not survive a round trip.
// Files whose path satisfies skip are left out; skip may be nil.
func (c *Codec) Export(g *graph.Graph, skip func(path string) bool) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := c.now()

	for _, n := range g.Files() {
		path := pathutil.BuildPath(g, n)
		if skip != nil && skip(path) {
			c.log.Debug("export skipped ignored file", zap.String("path", path))
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, &EncodeError{Entry: path, Cause: err}
		}
		if _, err := io.WriteString(w, n.Content); err != nil {
			return nil, &EncodeError{Entry: path, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &EncodeError{Entry: "central directory", Cause: err}
	}
	return buf.Bytes(), nil
}

// Import decodes an archive into new nodes: Folders for directory entries and for every
// missing ancestor, Files for file entries. Entries that are not UTF-8 text are skipped.
// Any other decode failure returns a *DecodeError and no node is produced.
func (c *Codec) Import(data []byte) ([]graph.Node, error) {
	var nodes []graph.Node
	emit := func(n graph.Node) { nodes = append(nodes, n) }
	memo := pathutil.NewFolderMemo(c.newID, emit)
	if err := c.ImportInto(data, memo, emit); err != nil {
		return nil, err
	}
	return nodes, nil
}

type entry struct {
	path string
	dir  bool
	file *zip.File
}

// ImportInto decodes an archive using a caller-owned folder memo, so several sources in
// one import share ancestor folders. Folders are emitted by the memo; Files go to emit.
func (c *Codec) ImportInto(data []byte, memo *pathutil.FolderMemo, emit func(graph.Node)) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &DecodeError{Cause: err}
	}

	entries := make([]entry, 0, len(zr.File))
	for _, f := range zr.File {
		if pathutil.IsUnsafe(f.Name) {
			c.log.Warn("skipping unsafe archive entry", zap.String("entry", f.Name))
			continue
		}
		if pathutil.SegmentCount(f.Name) == 0 {
			continue
		}
		entries = append(entries, entry{
			path: f.Name,
			dir:  strings.HasSuffix(f.Name, pathutil.Separator) || f.FileInfo().IsDir(),
			file: f,
		})
	}
	// Shallow entries first so parents are known before their children.
	sort.SliceStable(entries, func(i, j int) bool {
		return pathutil.SegmentCount(entries[i].path) < pathutil.SegmentCount(entries[j].path)
	})

	// Decode every payload before emitting anything so a bad entry leaves no partial output.
	contents := make([]string, len(entries))
	binary := make([]bool, len(entries))
	for i, e := range entries {
		if e.dir {
			continue
		}
		text, err := c.readText(e.file)
		if errors.Is(err, ErrNotText) {
			c.log.Warn("skipping binary archive entry", zap.String("entry", e.path))
			binary[i] = true
			continue
		}
		if err != nil {
			return &DecodeError{Entry: e.path, Cause: err}
		}
		contents[i] = text
	}

	for i, e := range entries {
		leaf, ancestors := pathutil.DecomposePath(e.path)
		if e.dir {
			memo.EnsureFolder(ancestors, leaf)
			continue
		}
		if binary[i] {
			continue
		}
		emit(graph.Node{
			ID:       c.newID(),
			Name:     leaf,
			Kind:     graph.KindFile,
			ParentID: memo.Ensure(ancestors),
			Content:  contents[i],
			Language: language.FromName(leaf),
		})
	}
	return nil
}

func (c *Codec) readText(f *zip.File) (string, error) {
	if c.maxEntrySize > 0 && f.UncompressedSize64 > uint64(c.maxEntrySize) {
		return "", ErrEntryTooLarge
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	r := io.Reader(rc)
	if c.maxEntrySize > 0 {
		r = io.LimitReader(rc, c.maxEntrySize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if c.maxEntrySize > 0 && int64(len(data)) > c.maxEntrySize {
		return "", ErrEntryTooLarge
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}
