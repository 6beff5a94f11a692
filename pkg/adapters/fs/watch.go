package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is emitted.
const DefaultDebounce = 200 * time.Millisecond

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Root         string
	Pattern      string
	Debounce     time.Duration
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Watcher reports files below Root that are created or written and match
// Pattern. Changes are coalesced: a batch is emitted once no new event has
// arrived for the debounce period.
type Watcher struct {
	config  WatchConfig
	active  atomic.Bool
	batches atomic.Int64

	mu   sync.Mutex
	dirs int
}

// NewWatcher applies defaults to cfg.
func NewWatcher(cfg WatchConfig) *Watcher {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{config: cfg}
}

// Start begins watching. Each value on the returned channel is a sorted list
// of slash-separated paths relative to Root. The channel is closed when ctx
// is done.
func (w *Watcher) Start(ctx context.Context) (<-chan []string, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !doublestar.ValidatePattern(w.config.Pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", w.config.Pattern)
	}
	if !w.active.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("watcher already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.active.Store(false)
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addTree(watcher, w.config.Root); err != nil {
		_ = watcher.Close()
		w.active.Store(false)
		return nil, err
	}

	out := make(chan []string)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		return w.run(ctx, watcher, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.report(fmt.Errorf("watcher stopped: %w", err))
	}))
	return out, nil
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		w.mu.Lock()
		w.dirs++
		w.mu.Unlock()
		return nil
	})
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- []string) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(out)
	defer w.active.Store(false)
	defer watcher.Close()

	pending := make(map[string]struct{})
	// Idle until the first event arrives.
	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			rel, keep := w.accept(watcher, event)
			if !keep {
				continue
			}
			w.config.Logger.Debug("asset changed", "path", rel, "op", event.Op.String())
			pending[rel] = struct{}{}
			timer.Reset(w.config.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)

			w.batches.Add(1)
			select {
			case out <- batch:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.report(wErr)
		}
	}
}

// accept filters an event down to a matching file path. New directories are
// added to the watch set as a side effect.
func (w *Watcher) accept(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	rel, err := filepath.Rel(w.config.Root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if isTemp(rel) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(event.Name); err == nil && isDir {
			if err := w.addTree(watcher, event.Name); err != nil {
				w.report(err)
			}
			return "", false
		}
	}

	ok, err := doublestar.Match(w.config.Pattern, rel)
	return rel, err == nil && ok
}

func (w *Watcher) report(err error) {
	w.config.Logger.Error("watch error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}
