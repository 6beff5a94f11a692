// Package workflow sequences the remote operations of quizsync: fetching a
// file, editing it locally, writing it back with its version tag and
// uploading batches of assets. Every operation records its outcome in the
// activity log.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/quizsync/pkg/core"
	"github.com/aretw0/quizsync/pkg/editor"
)

const (
	// DefaultWriteMessage is the commit message used for file updates.
	DefaultWriteMessage = "Update file via quizsync"
	// DefaultUploadMessage is the commit message used for asset uploads.
	DefaultUploadMessage = "Upload asset via quizsync"
)

// Service handles the synchronization workflow against a core.Remote.
type Service struct {
	mu         sync.RWMutex
	id         string
	remote     core.Remote
	credential string
	tags       map[string]string
	locks      *pathLocks
	log        *core.ActivityLog
	logger     *slog.Logger

	concurrency   int
	writeMessage  string
	uploadMessage string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Activity entries are mirrored to it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConcurrency sets how many uploads may run at once. Values below 2 keep
// uploads strictly sequential.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

// WithWriteMessage overrides the commit message used by WriteFile.
func WithWriteMessage(msg string) Option {
	return func(s *Service) {
		if msg != "" {
			s.writeMessage = msg
		}
	}
}

// WithUploadMessage overrides the commit message used by UploadAll.
func WithUploadMessage(msg string) Option {
	return func(s *Service) {
		if msg != "" {
			s.uploadMessage = msg
		}
	}
}

// WithCredential sets the initial access token.
func WithCredential(token string) Option {
	return func(s *Service) {
		s.credential = token
	}
}

// NewService creates a new Service backed by remote.
func NewService(remote core.Remote, opts ...Option) *Service {
	s := &Service{
		id:            uuid.NewString(),
		remote:        remote,
		tags:          make(map[string]string),
		locks:         newPathLocks(),
		concurrency:   1,
		writeMessage:  DefaultWriteMessage,
		uploadMessage: DefaultUploadMessage,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.logger = s.logger.With("session", s.id)
	s.log = core.NewActivityLog(s.logger)
	return s
}

// ID returns the unique identifier of this session.
func (s *Service) ID() string {
	return s.id
}

// SetCredential replaces the access token held in memory.
func (s *Service) SetCredential(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = strings.TrimSpace(token)
}

// HasCredential reports whether an access token is set.
func (s *Service) HasCredential() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

// Log returns the activity log of the session.
func (s *Service) Log() *core.ActivityLog {
	return s.log
}

// VersionTag returns the last version tag observed for path, if any.
func (s *Service) VersionTag(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, ok := s.tags[path]
	return tag, ok
}

func (s *Service) setTag(path, tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[path] = tag
}

// authorize attaches the credential to ctx or fails before any network call.
func (s *Service) authorize(ctx context.Context, op string) (context.Context, error) {
	s.mu.RLock()
	token := s.credential
	s.mu.RUnlock()

	if token == "" {
		return ctx, &core.AuthError{Op: op}
	}
	return core.WithCredential(ctx, token), nil
}

// FetchFile reads path from the remote and records its version tag.
func (s *Service) FetchFile(ctx context.Context, path string) (core.RemoteFile, error) {
	file, err := s.fetch(ctx, path)
	if err != nil {
		s.log.Append(core.KindFetchError, err.Error())
		return core.RemoteFile{}, err
	}
	s.log.Append(core.KindFetchSuccess, fmt.Sprintf("fetched %s", path))
	return file, nil
}

func (s *Service) fetch(ctx context.Context, path string) (core.RemoteFile, error) {
	ctx, err := s.authorize(ctx, "fetch")
	if err != nil {
		return core.RemoteFile{}, err
	}
	if strings.TrimSpace(path) == "" {
		return core.RemoteFile{}, core.Invalid("path", "must not be empty")
	}

	s.logger.Debug("fetching remote file", "path", path)
	file, err := s.remote.Get(ctx, path)
	if err != nil {
		return core.RemoteFile{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	s.setTag(path, file.VersionTag)
	return file, nil
}

// WriteFile writes file.Content to file.Path, carrying file.VersionTag as the
// revision being replaced. It returns the file with its refreshed tag, which
// must be used for the next write to the same path.
//
// The commit message defaults to the configured write message and can be
// overridden per call through core.ChangeReasonKey.
func (s *Service) WriteFile(ctx context.Context, file core.RemoteFile) (core.RemoteFile, error) {
	out, err := s.write(ctx, file)
	if err != nil {
		s.log.Append(core.KindUpdateError, err.Error())
		return file, err
	}
	s.log.Append(core.KindUpdateSuccess, fmt.Sprintf("updated %s", file.Path))
	return out, nil
}

func (s *Service) write(ctx context.Context, file core.RemoteFile) (core.RemoteFile, error) {
	ctx, err := s.authorize(ctx, "write")
	if err != nil {
		return file, err
	}
	if strings.TrimSpace(file.Path) == "" {
		return file, core.Invalid("path", "must not be empty")
	}
	if strings.TrimSpace(file.Content) == "" {
		return file, core.Invalid("content", "must not be empty")
	}

	msg := s.writeMessage
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	unlock := s.locks.lock(file.Path)
	defer unlock()

	s.logger.Debug("writing remote file", "path", file.Path, "sha", file.VersionTag)
	tag, err := s.remote.Put(ctx, core.PutRequest{
		Path:       file.Path,
		Content:    []byte(file.Content),
		VersionTag: file.VersionTag,
		Message:    msg,
	})
	if err != nil {
		return file, fmt.Errorf("write %s: %w", file.Path, err)
	}

	s.setTag(file.Path, tag)
	file.VersionTag = tag
	return file, nil
}

// Replace runs a pattern substitution over file.Content. The remote is not
// touched until the result is passed to WriteFile.
func (s *Service) Replace(file core.RemoteFile, search, replacement string) (core.RemoteFile, error) {
	content, n, err := editor.Replace(file.Content, search, replacement)
	if err != nil {
		s.log.Append(core.KindReplaceError, err.Error())
		return file, err
	}

	file.Content = content
	s.log.Append(core.KindReplaceSuccess, fmt.Sprintf("replaced %d occurrence(s) of %q with %q", n, search, replacement))
	return file, nil
}
