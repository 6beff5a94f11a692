package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/quizsync/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterGitHub = "github"
	AdapterMemory = "memory"
)

// options holds the internal configuration for the quizsync service.
type options struct {
	remote     core.Remote
	logger     *slog.Logger
	adapter    string
	baseURL    string
	owner      string
	repo       string
	branch     string
	workDir    string
	httpClient *http.Client
	rateLimit  float64

	credential    string
	concurrency   int
	writeMessage  string
	uploadMessage string
}

// Option defines a functional option for configuring quizsync.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     AdapterGitHub,
		workDir:     ".",
		concurrency: 1,
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRemote injects a custom core.Remote. The adapter settings are ignored.
func WithRemote(remote core.Remote) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithAdapter selects the remote adapter by name ("github" or "memory").
// Defaults to "github".
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithBaseURL points the GitHub adapter at another API root (e.g. GitHub Enterprise).
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithRepo sets the target repository. When either part is empty it is
// derived from the origin remote of the git checkout in the work directory.
func WithRepo(owner, repo string) Option {
	return func(o *options) {
		o.owner = owner
		o.repo = repo
	}
}

// WithBranch selects the branch files are read from and written to.
func WithBranch(branch string) Option {
	return func(o *options) {
		o.branch = branch
	}
}

// WithWorkDir sets the directory used for git remote discovery.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.workDir = dir
		}
	}
}

// WithHTTPClient sets the HTTP client used by the GitHub adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithRateLimit limits outgoing API requests per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(o *options) {
		o.rateLimit = rps
	}
}

// WithCredential sets the initial access token.
func WithCredential(token string) Option {
	return func(o *options) {
		o.credential = token
	}
}

// WithConcurrency sets how many asset uploads may run at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithWriteMessage overrides the commit message for file updates.
func WithWriteMessage(msg string) Option {
	return func(o *options) {
		o.writeMessage = msg
	}
}

// WithUploadMessage overrides the commit message for asset uploads.
func WithUploadMessage(msg string) Option {
	return func(o *options) {
		o.uploadMessage = msg
	}
}
