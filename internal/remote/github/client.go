// Package github syncs workspace files with GitHub through the repository contents API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/logging"
	"github.com/Cyclone1070/vault/internal/workspace/graph"
	"go.uber.org/zap"
)

const acceptHeader = "application/vnd.github.v3+json"

// Credentials identify the account used for a deploy.
type Credentials struct {
	Provider string
	Token    string
}

// Client talks to the GitHub REST API. Requests are issued one at a time and never
// retried; the only deadline is the one carried by the caller's context.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     config.RemoteConfig
	random  func(n int) int
	newID   func() string
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRandom replaces the source of the repository name suffix.
func WithRandom(fn func(n int) int) Option {
	return func(c *Client) { c.random = fn }
}

// WithIDGenerator replaces the id generator for imported nodes.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// NewClient creates a Client from the remote config.
func NewClient(cfg config.RemoteConfig, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		cfg:     cfg,
		random:  rand.IntN,
		newID:   graph.NewID,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authorize checks credentials locally. It never touches the network.
func (c *Client) Authorize(creds Credentials) error {
	switch {
	case creds.Provider != c.cfg.Provider:
		return &CredentialError{Reason: fmt.Sprintf("provider %q is not %q", creds.Provider, c.cfg.Provider)}
	case creds.Token == "":
		return &CredentialError{Reason: "token is missing"}
	case creds.Token == c.cfg.PlaceholderToken:
		return &CredentialError{Reason: "token is the placeholder value"}
	}
	return nil
}

// escapePath escapes each segment of a slash path for use in a URL.
func escapePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// tokenFor returns the configured token only when rawURL is served by the API host.
// Download URLs come from listings and may name any host.
func (c *Client) tokenFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base, err := url.Parse(c.baseURL)
	if err != nil || !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
		return ""
	}
	return c.cfg.Token
}

// apiError is the error body GitHub returns.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e apiError) text() string {
	if strings.Contains(e.Message, "Repository creation failed") && len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Message + ": " + e.Errors[0].Message
	}
	return e.Message
}

// do sends one request and returns the response body of a 2xx answer. label names the
// request in errors.
func (c *Client) do(ctx context.Context, method, rawURL, label, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &RemoteRequestError{Method: method, Path: label, Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &RemoteRequestError{Method: method, Path: label, Cause: err}
	}
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("github request", zap.String("method", method), zap.String("url", rawURL))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteRequestError{Method: method, Path: label, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteRequestError{Method: method, Path: label, Status: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		msg := ""
		if json.Unmarshal(data, &apiErr) == nil {
			msg = apiErr.text()
		}
		return nil, &RemoteRequestError{Method: method, Path: label, Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

// IsNotFound reports whether err is a 404 from the remote.
func IsNotFound(err error) bool {
	var reqErr *RemoteRequestError
	return errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound
}
