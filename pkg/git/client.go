// Package git reads repository metadata from a local checkout so the target
// GitHub repository can be inferred instead of configured.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"
)

// Client wraps git command execution in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{WorkDir: workDir, Logger: logger}
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository if one doesn't exist.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// RemoteURL returns the fetch URL of the named remote.
func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	return c.Run(ctx, "remote", "get-url", name)
}

// Origin returns owner and repository name of the "origin" remote.
func (c *Client) Origin(ctx context.Context) (owner, repo string, err error) {
	u, err := c.RemoteURL(ctx, "origin")
	if err != nil {
		return "", "", err
	}
	return ParseRemote(u)
}

// ParseRemote extracts owner and repository from a remote URL. It accepts
// https://host/owner/repo(.git), ssh://git@host/owner/repo(.git) and the
// scp-like git@host:owner/repo(.git) form.
func ParseRemote(remote string) (owner, repo string, err error) {
	remote = strings.TrimSpace(remote)
	var p string

	switch {
	case strings.Contains(remote, "://"):
		u, perr := url.Parse(remote)
		if perr != nil {
			return "", "", fmt.Errorf("invalid remote url %q: %w", remote, perr)
		}
		p = u.Path
	case strings.Contains(remote, ":"):
		// git@github.com:owner/repo.git
		_, p, _ = strings.Cut(remote, ":")
	default:
		return "", "", fmt.Errorf("unrecognized remote url %q", remote)
	}

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	parts := strings.Split(p, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("remote url %q has no owner/repo path", remote)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
