package core

import "context"

// PutRequest describes a create-or-update of a single remote file.
type PutRequest struct {
	Path    string
	Content []byte
	// VersionTag is the tag of the revision being replaced. Empty means create.
	VersionTag string
	Message    string
}

// Remote is the port to the repository hosting the files.
// Adhering to this interface keeps the workflow independent of the
// hosting API (GitHub, in-memory, ...).
type Remote interface {
	// Get fetches a file and its current version tag. Content is decoded.
	Get(ctx context.Context, path string) (RemoteFile, error)

	// Stat returns the current version tag of a file without its content.
	Stat(ctx context.Context, path string) (string, error)

	// Put creates or updates a file and returns the new version tag.
	Put(ctx context.Context, req PutRequest) (string, error)
}

const credentialKey contextKey = "credential"

// WithCredential returns a context carrying the access token for remote calls.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey, token)
}

// CredentialFrom extracts the access token placed by WithCredential.
func CredentialFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialKey).(string)
	return token, ok && token != ""
}
