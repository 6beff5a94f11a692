package workflow

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	ID            string `json:"id"`
	RemoteType    string `json:"remote_type"`
	HasCredential bool   `json:"has_credential"`
	TrackedPaths  int    `json:"tracked_paths"`
	LockedPaths   int    `json:"locked_paths"`
	LogEntries    int    `json:"log_entries"`
	LogErrors     int    `json:"log_errors"`
	Concurrency   int    `json:"concurrency"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	remoteType := "remote"
	if comp, ok := s.remote.(introspection.Component); ok {
		remoteType = comp.ComponentType()
	}

	return ServiceState{
		ID:            s.id,
		RemoteType:    remoteType,
		HasCredential: s.credential != "",
		TrackedPaths:  len(s.tags),
		LockedPaths:   s.locks.len(),
		LogEntries:    s.log.Len(),
		LogErrors:     s.log.Errors(),
		Concurrency:   s.concurrency,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
