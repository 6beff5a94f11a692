// Package github implements core.Remote on top of the GitHub REST contents API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/aretw0/quizsync/pkg/codec"
	"github.com/aretw0/quizsync/pkg/core"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint.
	DefaultBaseURL = "https://api.github.com"

	mediaTypeJSON = "application/vnd.github.v3+json"
	mediaTypeRaw  = "application/vnd.github.v3.raw"
	userAgent     = "quizsync"

	// maxErrorBody bounds how much of a non-JSON error body is kept.
	maxErrorBody = 512
)

// Config holds the configuration for the GitHub client.
type Config struct {
	BaseURL string
	Owner   string
	Repo    string
	// Branch selects a branch for reads and writes. Empty means the default branch.
	Branch     string
	HTTPClient *http.Client
	// Limiter, when set, is waited on before every request.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Client implements core.Remote for one repository.
type Client struct {
	config   Config
	base     *url.URL
	requests atomic.Int64
}

// NewClient validates cfg and creates a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("github: owner and repo are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("github: invalid base url: %w", err)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{config: cfg, base: base}, nil
}

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
	Path     string `json:"path"`
}

type putBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Get implements core.Remote.
func (c *Client) Get(ctx context.Context, path string) (core.RemoteFile, error) {
	resp, err := c.do(ctx, http.MethodGet, path, mediaTypeJSON, nil)
	if err != nil {
		return core.RemoteFile{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.RemoteFile{}, fmt.Errorf("failed to read response: %w", err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		return core.RemoteFile{}, core.Invalid("path", fmt.Sprintf("%s is a directory", path))
	}

	var data contentResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return core.RemoteFile{}, fmt.Errorf("failed to decode response: %w", err)
	}

	file := core.RemoteFile{Path: path, VersionTag: data.SHA}

	// Files above 1 MB come back without inline content.
	if data.Encoding == "none" || (data.Content == "" && data.Encoding == "") {
		content, err := c.getRaw(ctx, path)
		if err != nil {
			return core.RemoteFile{}, err
		}
		file.Content = content
		return file, nil
	}

	content, err := codec.DecodeText(data.Content)
	if err != nil {
		return core.RemoteFile{}, err
	}
	file.Content = content
	return file, nil
}

// Stat implements core.Remote. The response is read only up to the "sha"
// field; inline content is never decoded and large files are not
// downloaded a second time.
func (c *Client) Stat(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, mediaTypeJSON, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	switch tok {
	case json.Delim('{'):
	case json.Delim('['):
		return "", core.Invalid("path", fmt.Sprintf("%s is a directory", path))
	default:
		return "", fmt.Errorf("unexpected response for %s", path)
	}

	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if key == "sha" {
			var sha string
			if err := dec.Decode(&sha); err != nil {
				return "", fmt.Errorf("failed to decode sha: %w", err)
			}
			return sha, nil
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return "", errors.New("response carries no sha")
}

func (c *Client) getRaw(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, mediaTypeRaw, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read raw content: %w", err)
	}
	return string(data), nil
}

// Put implements core.Remote.
func (c *Client) Put(ctx context.Context, req core.PutRequest) (string, error) {
	body, err := json.Marshal(putBody{
		Message: req.Message,
		Content: codec.Encode(req.Content),
		SHA:     req.VersionTag,
		Branch:  c.config.Branch,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, req.Path, mediaTypeJSON, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var data putResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if data.Content.SHA == "" {
		return "", errors.New("response carries no content sha")
	}
	return data.Content.SHA, nil
}

// do sends an authenticated request and converts non-2xx responses into a
// *core.RemoteError. The caller closes the body of a successful response.
func (c *Client) do(ctx context.Context, method, path, accept string, body []byte) (*http.Response, error) {
	client, err := c.httpClient(ctx)
	if err != nil {
		return nil, err
	}

	if c.config.Limiter != nil {
		if err := c.config.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.contentsURL(path, method == http.MethodGet), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.requests.Add(1)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if c.config.Logger != nil {
		c.config.Logger.Debug("github request", "method", method, "path", path, "status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, remoteError(resp)
	}
	return resp, nil
}

func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	token, ok := core.CredentialFrom(ctx)
	if !ok {
		return nil, &core.AuthError{Op: "github"}
	}

	base := c.config.HTTPClient
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	// TokenType "token" yields the "Authorization: token <pat>" header.
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "token"})
	return &http.Client{
		Transport: &oauth2.Transport{Source: source, Base: transport},
		Timeout:   base.Timeout,
	}, nil
}

// contentsURL builds /repos/{owner}/{repo}/contents/{path}, escaping each segment.
func (c *Client) contentsURL(path string, withRef bool) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	target := c.base.Scheme + "://" + c.base.Host +
		strings.TrimSuffix(c.base.EscapedPath(), "/") +
		"/repos/" + url.PathEscape(c.config.Owner) + "/" + url.PathEscape(c.config.Repo) +
		"/contents/" + strings.Join(segments, "/")

	if withRef && c.config.Branch != "" {
		target += "?ref=" + url.QueryEscape(c.config.Branch)
	}
	return target
}

func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var data errorResponse
	msg := ""
	if err := json.Unmarshal(raw, &data); err == nil {
		msg = data.Message
	} else {
		msg = strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
	}
	return &core.RemoteError{Status: resp.StatusCode, Message: msg}
}
