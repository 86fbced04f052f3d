package github

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"github.com/Cyclone1070/vault/internal/workspace/pathutil"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	nameInvalid = regexp.MustCompile(`[^a-z0-9-]`)
)

// DeployResult describes a pushed repository.
type DeployResult struct {
	URL      string
	Name     string
	Owner    string
	Uploaded []string
	Digest   string
}

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	AutoInit    bool   `json:"auto_init"`
}

type createRepoResponse struct {
	HTMLURL string `json:"html_url"`
	Owner   struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// SanitizeName turns a project name into a repository name: whitespace becomes "-",
// letters are lowercased and anything outside [a-z0-9-] is dropped.
func SanitizeName(name string) string {
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "-")
	return nameInvalid.ReplaceAllString(strings.ToLower(name), "")
}

// Deploy creates a new repository and uploads every non-empty File of g to it, one
// request at a time. Files are addressed by their bare name unless preserve_paths is
// set, so nested files sharing a name overwrite each other. skip, when non-nil, drops
// files by resolved path. A failed upload leaves the created repository in place.
func (c *Client) Deploy(ctx context.Context, creds Credentials, projectName string, g *graph.Graph, skip func(path string) bool) (*DeployResult, error) {
	if err := c.Authorize(creds); err != nil {
		return nil, err
	}

	name := SanitizeName(projectName)
	if name == "" {
		name = SanitizeName(c.cfg.DefaultProjectName)
	}
	name = fmt.Sprintf("%s-%d", name, c.random(10000))

	data, err := c.do(ctx, http.MethodPost, c.baseURL+"/user/repos", "/user/repos", creds.Token, createRepoRequest{
		Name:        name,
		Description: c.cfg.Description,
		Private:     c.cfg.Private,
		AutoInit:    false,
	})
	if err != nil {
		return nil, err
	}
	var created createRepoResponse
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, &RemoteRequestError{Method: http.MethodPost, Path: "/user/repos", Cause: err}
	}
	c.log.Info("created repository", zap.String("name", name), zap.String("owner", created.Owner.Login))

	result := &DeployResult{URL: created.HTMLURL, Name: name, Owner: created.Owner.Login}
	digest := make(map[string]string)
	for _, n := range g.Files() {
		if n.Content == "" {
			continue
		}
		resolved := pathutil.BuildPath(g, n)
		if skip != nil && skip(resolved) {
			continue
		}
		target := n.Name
		if c.cfg.PreservePaths {
			target = resolved
		}

		rawURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, escapePath(created.Owner.Login), escapePath(name), escapePath(target))
		_, err := c.do(ctx, http.MethodPut, rawURL, target, creds.Token, putContentRequest{
			Message: "Sync: " + n.Name,
			Content: base64.StdEncoding.EncodeToString([]byte(n.Content)),
		})
		if err != nil {
			return nil, err
		}
		result.Uploaded = append(result.Uploaded, target)
		digest[target] = n.Content
	}
	result.Digest = Digest(digest)
	return result, nil
}

// Digest returns a blake3 hex digest over path/content pairs in path order.
// Returns "" for an empty set.
func Digest(files map[string]string) string {
	if len(files) == 0 {
		return ""
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := blake3.New()
	for _, p := range paths {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(files[p]))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
