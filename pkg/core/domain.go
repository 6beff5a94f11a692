// Package core holds the domain of quizsync: remote files, asset uploads
// and the activity log, together with the Remote port adapters implement.
package core

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

// RemoteFile is a file in the remote repository as last seen by the client.
// An empty VersionTag means the file is not known to exist remotely.
type RemoteFile struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	VersionTag string `json:"sha,omitempty"`
}

// AssetUploadItem is a binary asset waiting to be uploaded.
type AssetUploadItem struct {
	ID        string `json:"id"`
	Payload   []byte `json:"-"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
}

// Path returns the destination path of the asset inside the repository.
func (i AssetUploadItem) Path() string {
	if i.Directory == "" {
		return i.Filename
	}
	return path.Join(i.Directory, i.Filename)
}

// Validate checks that the item stays inside its directory: the filename is
// a single path element and the directory never climbs with "..".
func (i AssetUploadItem) Validate() error {
	name := strings.TrimSpace(i.Filename)
	switch {
	case name == "":
		return Invalid("filename", "must not be empty")
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return Invalid("filename", fmt.Sprintf("%q must be a plain file name", i.Filename))
	}
	for _, seg := range strings.Split(strings.ReplaceAll(i.Directory, `\`, "/"), "/") {
		if seg == ".." {
			return Invalid("directory", fmt.Sprintf("%q must not contain ..", i.Directory))
		}
	}
	return nil
}

// Kind classifies an activity log entry.
type Kind string

const (
	KindFetchSuccess   Kind = "FETCH_SUCCESS"
	KindFetchError     Kind = "FETCH_ERROR"
	KindReplaceSuccess Kind = "REPLACE_SUCCESS"
	KindReplaceError   Kind = "REPLACE_ERROR"
	KindUpdateSuccess  Kind = "UPDATE_SUCCESS"
	KindUpdateError    Kind = "UPDATE_ERROR"
	KindUploadSuccess  Kind = "UPLOAD_SUCCESS"
	KindUploadError    Kind = "UPLOAD_ERROR"
)

// IsError reports whether the kind records a failure.
func (k Kind) IsError() bool {
	switch k {
	case KindFetchError, KindReplaceError, KindUpdateError, KindUploadError:
		return true
	}
	return false
}

// LogEntry is one immutable record of the activity log.
type LogEntry struct {
	Time    time.Time
	Kind    Kind
	Message string
}

// Timestamp renders the entry time as ISO-8601 with millisecond precision.
func (e LogEntry) Timestamp() string {
	return e.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// MarshalJSON renders the entry the way the form displayed it.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timestamp string `json:"timestamp"`
		Kind      Kind   `json:"type"`
		Message   string `json:"message"`
	}{e.Timestamp(), e.Kind, e.Message})
}

type contextKey string

// ChangeReasonKey is the context key for passing the commit message used by writes.
const ChangeReasonKey contextKey = "change_reason"
