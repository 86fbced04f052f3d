// Package picker turns flat relative-path picks, as produced by a file or directory
// picker, into workspace nodes.
package picker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Cyclone1070/vault/internal/archive"
	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/language"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"go.uber.org/zap"
)

// Pick is one picked file: its slash path relative to the picked root and its bytes.
type Pick struct {
	RelativePath string
	Content      []byte
}

// archiveDecoder is the part of the archive codec the importer needs.
type archiveDecoder interface {
	ImportInto(data []byte, memo *pathutil.FolderMemo, emit func(graph.Node)) error
}

// Importer converts picks into nodes. Picks ending in .zip are expanded through the
// archive codec; every other pick becomes one File.
type Importer struct {
	archive      archiveDecoder
	maxEntrySize int64
	newID        func() string
	log          *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithIDGenerator replaces the id generator for folders and plain files.
func WithIDGenerator(fn func() string) Option {
	return func(i *Importer) { i.newID = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Importer) { i.log = logging.OrNop(l) }
}

// NewImporter creates an Importer. codec handles .zip picks.
func NewImporter(cfg config.ArchiveConfig, codec archiveDecoder, opts ...Option) *Importer {
	i := &Importer{
		archive:      codec,
		maxEntrySize: cfg.MaxEntrySize,
		newID:        graph.NewID,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import converts picks into new nodes. All picks share one folder memo, so a folder
// path that appears in several picks is created once. Picks that are not UTF-8 text
// are skipped; any other decode failure aborts the whole import.
func (i *Importer) Import(picks []Pick) ([]graph.Node, error) {
	var nodes []graph.Node
	emit := func(n graph.Node) { nodes = append(nodes, n) }
	memo := pathutil.NewFolderMemo(i.newID, emit)

	for _, p := range picks {
		leaf, ancestors := pathutil.DecomposePath(p.RelativePath)
		if leaf == "" || pathutil.IsUnsafe(p.RelativePath) {
			i.log.Warn("skipping unusable pick", zap.String("path", p.RelativePath))
			continue
		}

		if strings.HasSuffix(strings.ToLower(leaf), ".zip") {
			i.log.Info("extracting archive pick", zap.String("path", p.RelativePath))
			if err := i.archive.ImportInto(p.Content, memo, emit); err != nil {
				return nil, err
			}
			continue
		}

		if i.maxEntrySize > 0 && int64(len(p.Content)) > i.maxEntrySize {
			return nil, &archive.DecodeError{Entry: p.RelativePath, Cause: archive.ErrEntryTooLarge}
		}
		if !utf8.Valid(p.Content) {
			i.log.Warn("skipping binary pick", zap.String("path", p.RelativePath))
			continue
		}
		emit(graph.Node{
			ID:       i.newID(),
			Name:     leaf,
			Kind:     graph.KindFile,
			ParentID: memo.Ensure(ancestors),
			Content:  string(p.Content),
			Language: language.FromName(leaf),
		})
	}
	return nodes, nil
}

// WalkDir collects every regular file below root as picks whose relative paths start
// with the base name of root, the way a directory picker reports them.
func WalkDir(root string) ([]Pick, error) {
	return WalkFS(os.DirFS(root), filepath.Base(filepath.Clean(root)))
}

// WalkFS collects every regular file of fsys as picks prefixed with prefix.
// .git directories are skipped.
func WalkFS(fsys fs.FS, prefix string) ([]Pick, error) {
	var picks []Pick
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		rel := path
		if prefix != "" && prefix != "." {
			rel = prefix + pathutil.Separator + path
		}
		picks = append(picks, Pick{RelativePath: rel, Content: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picks, nil
}
