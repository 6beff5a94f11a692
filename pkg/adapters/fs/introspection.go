package fs

import (
	"os"

	"github.com/aretw0/introspection"
)

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Root    string `json:"root"`
	Pattern string `json:"pattern"`
	Active  bool   `json:"active"`
	Dirs    int    `json:"watched_dirs"`
	Batches int64  `json:"batches"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()

	return WatcherState{
		Root:    w.config.Root,
		Pattern: w.config.Pattern,
		Active:  w.active.Load(),
		Dirs:    w.dirs,
		Batches: w.batches.Load(),
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "fs-watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)

func statDir(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
