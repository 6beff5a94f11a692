package core

import (
	"log/slog"
	"sync"
	"time"
)

// ActivityLog is an append-only record of operation outcomes.
// Entries are kept in insertion order and exposed newest-first.
// The log is unbounded: it lives as long as the session that owns it.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []LogEntry
	logger  *slog.Logger
	now     func() time.Time
}

// NewActivityLog creates an empty log. Entries are mirrored to logger when it is not nil.
func NewActivityLog(logger *slog.Logger) *ActivityLog {
	return &ActivityLog{
		logger: logger,
		now:    time.Now,
	}
}

// Append records a new entry and returns it.
func (l *ActivityLog) Append(kind Kind, message string) LogEntry {
	entry := LogEntry{
		Time:    l.now(),
		Kind:    kind,
		Message: message,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.logger != nil {
		if kind.IsError() {
			l.logger.Error(message, "kind", string(kind))
		} else {
			l.logger.Info(message, "kind", string(kind))
		}
	}
	return entry
}

// Entries returns a snapshot of the log, newest first.
func (l *ActivityLog) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LogEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of recorded entries.
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Errors returns the number of entries whose kind is an error.
func (l *ActivityLog) Errors() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.entries {
		if e.Kind.IsError() {
			n++
		}
	}
	return n
}
