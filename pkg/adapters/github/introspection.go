package github

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/quizsync/pkg/core"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL     string `json:"base_url"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Branch      string `json:"branch,omitempty"`
	RateLimited bool   `json:"rate_limited"`
	Requests    int64  `json:"requests"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{
		BaseURL:     c.base.String(),
		Owner:       c.config.Owner,
		Repo:        c.config.Repo,
		Branch:      c.config.Branch,
		RateLimited: c.config.Limiter != nil,
		Requests:    c.requests.Load(),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "github"
}

var _ core.Remote = (*Client)(nil)
var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
