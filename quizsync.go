package quizsync

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/quizsync/internal/platform"
	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/workflow"
)

// --- Types ---

// Service is the synchronization workflow for one session.
type Service = workflow.Service

// RemoteFile is a file as last seen in the repository.
type RemoteFile = core.RemoteFile

// AssetUploadItem is a binary asset waiting to be uploaded.
type AssetUploadItem = core.AssetUploadItem

// --- Configuration ---

// Option defines a functional option for configuring quizsync.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRemote injects a custom core.Remote.
func WithRemote(remote core.Remote) Option {
	return platform.WithRemote(remote)
}

// WithAdapter selects the remote adapter by name ("github" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBaseURL points the GitHub adapter at another API root.
func WithBaseURL(u string) Option {
	return platform.WithBaseURL(u)
}

// WithRepo sets the target repository.
func WithRepo(owner, repo string) Option {
	return platform.WithRepo(owner, repo)
}

// WithBranch selects the branch files are read from and written to.
func WithBranch(branch string) Option {
	return platform.WithBranch(branch)
}

// WithWorkDir sets the directory used for git remote discovery.
func WithWorkDir(dir string) Option {
	return platform.WithWorkDir(dir)
}

// WithHTTPClient sets the HTTP client used by the GitHub adapter.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithRateLimit limits outgoing API requests per second.
func WithRateLimit(rps float64) Option {
	return platform.WithRateLimit(rps)
}

// WithCredential sets the initial access token.
func WithCredential(token string) Option {
	return platform.WithCredential(token)
}

// WithConcurrency sets how many asset uploads may run at once.
func WithConcurrency(n int) Option {
	return platform.WithConcurrency(n)
}

// WithWriteMessage overrides the commit message for file updates.
func WithWriteMessage(msg string) Option {
	return platform.WithWriteMessage(msg)
}

// WithUploadMessage overrides the commit message for asset uploads.
func WithUploadMessage(msg string) Option {
	return platform.WithUploadMessage(msg)
}

// --- Factory ---

// New creates a new quizsync Service.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	return platform.New(ctx, opts...)
}

// --- Change Messages ---

const (
	CommitTypeFeat     = platform.CommitTypeFeat
	CommitTypeFix      = platform.CommitTypeFix
	CommitTypeDocs     = platform.CommitTypeDocs
	CommitTypeStyle    = platform.CommitTypeStyle
	CommitTypeRefactor = platform.CommitTypeRefactor
	CommitTypePerf     = platform.CommitTypePerf
	CommitTypeTest     = platform.CommitTypeTest
	CommitTypeChore    = platform.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the quizsync footer to an arbitrary message.
func AppendFooter(msg string) string {
	return platform.AppendFooter(msg)
}

// WithChangeReason returns a context whose writes use msg as commit message.
func WithChangeReason(ctx context.Context, msg string) context.Context {
	return platform.WithChangeReason(ctx, msg)
}
