package platform

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/aretw0/quizsync/pkg/adapters/github"
	"github.com/aretw0/quizsync/pkg/adapters/memory"
	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/git"
)

// Init builds the core.Remote selected by the options.
func Init(ctx context.Context, opts ...Option) (core.Remote, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRemote(ctx, o)
}

func initRemote(ctx context.Context, o *options) (core.Remote, error) {
	// 1. Check for injected remote
	if o.remote != nil {
		return o.remote, nil
	}

	// 2. Initialize based on Adapter
	switch o.adapter {
	case AdapterGitHub:
		return initGitHub(ctx, o)
	case AdapterMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initGitHub handles the initialization logic for the GitHub adapter.
func initGitHub(ctx context.Context, o *options) (core.Remote, error) {
	owner, repo := o.owner, o.repo
	if owner == "" || repo == "" {
		gitOwner, gitRepo, err := git.NewClient(o.workDir, o.logger).Origin(ctx)
		if err != nil {
			return nil, fmt.Errorf("repository not configured and origin remote unavailable: %w", err)
		}
		if owner == "" {
			owner = gitOwner
		}
		if repo == "" {
			repo = gitRepo
		}
		if o.logger != nil {
			o.logger.Debug("derived repository from git origin", "owner", owner, "repo", repo)
		}
	}

	var limiter *rate.Limiter
	if o.rateLimit > 0 {
		burst := int(o.rateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(o.rateLimit), burst)
	}

	return github.NewClient(github.Config{
		BaseURL:    o.baseURL,
		Owner:      owner,
		Repo:       repo,
		Branch:     o.branch,
		HTTPClient: o.httpClient,
		Limiter:    limiter,
		Logger:     o.logger,
	})
}
