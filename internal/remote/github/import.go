package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/language"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// contentEntry is one item of a contents listing.
type contentEntry struct {
	Type        string `mapstructure:"type"`
	Name        string `mapstructure:"name"`
	Path        string `mapstructure:"path"`
	DownloadURL string `mapstructure:"download_url"`
}

// ParseRepoID splits an owner/repo id.
func ParseRepoID(repoID string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.Trim(repoID, "/ "), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoID, repoID)
	}
	return owner, repo, nil
}

// Import lists the repository tree from its root and returns one root-level File per
// remote file, named by the remote path. Directories are walked but never become
// Folders. Listings and downloads run strictly one after another.
func (c *Client) Import(ctx context.Context, repoID string) ([]graph.Node, error) {
	owner, repo, err := ParseRepoID(repoID)
	if err != nil {
		return nil, err
	}
	id := owner + "/" + repo

	var nodes []graph.Node
	if err := c.walk(ctx, id, "", &nodes); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, &EmptyResultError{Repo: id}
	}
	c.log.Info("imported repository", zap.String("repo", id), zap.Int("files", len(nodes)))
	return nodes, nil
}

func (c *Client) walk(ctx context.Context, repoID, path string, nodes *[]graph.Node) error {
	entries, err := c.list(ctx, repoID, path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		switch e.Type {
		case "file":
			content, err := c.do(ctx, http.MethodGet, e.DownloadURL, e.Path, c.tokenFor(e.DownloadURL), nil)
			if err != nil {
				return err
			}
			*nodes = append(*nodes, graph.Node{
				ID:       c.newID(),
				Name:     e.Path,
				Kind:     graph.KindFile,
				Content:  string(content),
				Language: language.FromName(e.Name),
			})
		case "dir":
			if err := c.walk(ctx, repoID, e.Path, nodes); err != nil {
				return err
			}
		default:
			c.log.Debug("skipping remote entry", zap.String("path", e.Path), zap.String("type", e.Type))
		}
	}
	return nil
}

// list fetches one contents listing. The API answers with an array for directories
// and a single object for a file path.
func (c *Client) list(ctx context.Context, repoID, path string) ([]contentEntry, error) {
	label := path
	if label == "" {
		label = "/"
	}
	rawURL := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, repoID, escapePath(path))
	data, err := c.do(ctx, http.MethodGet, rawURL, label, c.cfg.Token, nil)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &RemoteRequestError{Method: http.MethodGet, Path: label, Cause: err}
	}
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}

	var entries []contentEntry
	if err := mapstructure.Decode(items, &entries); err != nil {
		return nil, &RemoteRequestError{Method: http.MethodGet, Path: label, Cause: err}
	}
	return entries, nil
}
