// Package watch re-indexes an acquired repository when its directory tree
// changes on disk, coalescing rapid event bursts into a single pass.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
)

// Target is the repository being watched. Init re-runs acquisition checks
// plus indexing; it is all-or-nothing, so a failed re-index keeps the
// previous plugin collection.
type Target interface {
	Init(ctx context.Context) error
	List() []plugin.Plugin
	LocalPath() string
}

// Reindexer watches a repository's root and its immediate plugin
// directories and rebuilds the index after a quiet window with no further
// changes.
type Reindexer struct {
	target   Target
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onIndex  func(plugins []plugin.Plugin, err error)
	logger   *slog.Logger
}

// NewReindexer creates a reindexer for the target repository. onIndex is
// invoked after every re-indexing attempt with the resulting collection or
// the error that aborted the pass.
func NewReindexer(target Target, debounce time.Duration, onIndex func([]plugin.Plugin, error), logger *slog.Logger) (*Reindexer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reindexer{
		target:   target,
		watcher:  w,
		debounce: debounce,
		onIndex:  onIndex,
		logger:   logger,
	}, nil
}

// watchTree registers the repository root and its immediate non-hidden
// child directories. Deeper levels never influence the index, so they are
// not watched.
func (r *Reindexer) watchTree() error {
	root := r.target.LocalPath()
	if err := r.watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read %s: %w", root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := r.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// Run watches the repository until the context is cancelled, re-indexing
// after each quiet window. The debounce timer fires into the same select
// loop that receives filesystem events, so Init always runs on this
// goroutine and passes never overlap: the repository owns its plugin
// collection exclusively, and Init is not safe to call concurrently.
// Events arriving while a pass is in flight queue up and restart the quiet
// window once the pass returns.
func (r *Reindexer) Run(ctx context.Context) error {
	defer r.watcher.Close()

	if err := r.watchTree(); err != nil {
		return err
	}

	quiet := time.NewTimer(r.debounce)
	if !quiet.Stop() {
		<-quiet.C
	}
	defer quiet.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-quiet.C:
			pending = false
			r.reindex(ctx)

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if isHidden(event.Name) {
				continue
			}

			// A new top-level directory is a plugin candidate; watch its
			// marker and configuration files too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() &&
					filepath.Dir(event.Name) == r.target.LocalPath() {
					_ = r.watcher.Add(event.Name)
				}
			}

			r.logger.Debug("repository change", "path", event.Name, "op", event.Op.String())
			if pending && !quiet.Stop() {
				<-quiet.C
			}
			quiet.Reset(r.debounce)
			pending = true

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (r *Reindexer) reindex(ctx context.Context) {
	err := r.target.Init(ctx)
	if err != nil {
		r.logger.Warn("re-indexing failed, keeping previous index", "error", err)
	}
	if r.onIndex != nil {
		r.onIndex(r.target.List(), err)
	}
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
