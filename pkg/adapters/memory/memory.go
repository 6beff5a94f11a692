// Package memory implements core.Remote in process memory. It follows the
// contents API rules for version tags and is used for dry runs and tests.
package memory

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/quizsync/pkg/core"
)

type object struct {
	content []byte
	sha     string
}

// Remote is an in-memory core.Remote.
type Remote struct {
	mu       sync.Mutex
	files    map[string]object
	getFails map[string]error
	putFails map[string]error
	gets     []string
	stats    []string
	puts     []core.PutRequest
	// RequireCredential rejects calls whose context carries no credential.
	RequireCredential bool
	// Latency delays every call, standing in for a network round trip.
	Latency time.Duration
}

// New creates an empty in-memory remote that requires a credential, like the real API.
func New() *Remote {
	return &Remote{
		files:             make(map[string]object),
		getFails:          make(map[string]error),
		putFails:          make(map[string]error),
		RequireCredential: true,
	}
}

// BlobSHA returns the git blob hash of content, the same tag the API uses.
func BlobSHA(content []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Seed stores content at path and returns its version tag.
func (r *Remote) Seed(path string, content []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sha := BlobSHA(content)
	r.files[path] = object{content: append([]byte(nil), content...), sha: sha}
	return sha
}

// Content returns the stored bytes at path.
func (r *Remote) Content(path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.content...), true
}

// FailGet makes every Get and Stat of path return err.
func (r *Remote) FailGet(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getFails[path] = err
}

// FailPut makes every Put to path return err.
func (r *Remote) FailPut(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putFails[path] = err
}

// Gets returns the paths requested through Get, in call order.
func (r *Remote) Gets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.gets...)
}

// Stats returns the paths requested through Stat, in call order.
func (r *Remote) Stats() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stats...)
}

// Puts returns the write requests received, in call order.
func (r *Remote) Puts() []core.PutRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.PutRequest(nil), r.puts...)
}

// Paths lists the stored paths in lexical order.
func (r *Remote) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, 0, len(r.files))
	for p := range r.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *Remote) wait(ctx context.Context) error {
	if r.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Remote) checkCredential(ctx context.Context) error {
	if !r.RequireCredential {
		return nil
	}
	if _, ok := core.CredentialFrom(ctx); !ok {
		return &core.RemoteError{Status: http.StatusUnauthorized, Message: "Requires authentication"}
	}
	return nil
}

// Get implements core.Remote.
func (r *Remote) Get(ctx context.Context, path string) (core.RemoteFile, error) {
	if err := r.wait(ctx); err != nil {
		return core.RemoteFile{}, err
	}
	if err := r.checkCredential(ctx); err != nil {
		return core.RemoteFile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets = append(r.gets, path)

	if err, ok := r.getFails[path]; ok {
		return core.RemoteFile{}, err
	}
	obj, ok := r.files[path]
	if !ok {
		return core.RemoteFile{}, &core.RemoteError{Status: http.StatusNotFound, Message: "Not Found"}
	}
	return core.RemoteFile{
		Path:       path,
		Content:    string(obj.content),
		VersionTag: obj.sha,
	}, nil
}

// Stat implements core.Remote.
func (r *Remote) Stat(ctx context.Context, path string) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	if err := r.checkCredential(ctx); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, path)

	if err, ok := r.getFails[path]; ok {
		return "", err
	}
	obj, ok := r.files[path]
	if !ok {
		return "", &core.RemoteError{Status: http.StatusNotFound, Message: "Not Found"}
	}
	return obj.sha, nil
}

// Put implements core.Remote.
func (r *Remote) Put(ctx context.Context, req core.PutRequest) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	if err := r.checkCredential(ctx); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts = append(r.puts, req)

	if err, ok := r.putFails[req.Path]; ok {
		return "", err
	}

	existing, exists := r.files[req.Path]
	switch {
	case exists && req.VersionTag == "":
		return "", &core.RemoteError{
			Status:  http.StatusUnprocessableEntity,
			Message: `Invalid request. "sha" wasn't supplied.`,
		}
	case exists && req.VersionTag != existing.sha:
		return "", &core.RemoteError{
			Status:  http.StatusConflict,
			Message: fmt.Sprintf("%s does not match %s", req.Path, req.VersionTag),
		}
	case !exists && req.VersionTag != "":
		return "", &core.RemoteError{Status: http.StatusNotFound, Message: "Not Found"}
	}

	sha := BlobSHA(req.Content)
	r.files[req.Path] = object{content: append([]byte(nil), req.Content...), sha: sha}
	return sha, nil
}

// RemoteState exposes internal state for observability.
type RemoteState struct {
	Files int `json:"files"`
	Gets  int `json:"gets"`
	Stats int `json:"stats"`
	Puts  int `json:"puts"`
}

// State implements introspection.Introspectable.
func (r *Remote) State() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RemoteState{Files: len(r.files), Gets: len(r.gets), Stats: len(r.stats), Puts: len(r.puts)}
}

// ComponentType implements introspection.Component.
func (r *Remote) ComponentType() string {
	return "memory"
}

var _ core.Remote = (*Remote)(nil)
var _ introspection.Introspectable = (*Remote)(nil)
var _ introspection.Component = (*Remote)(nil)
