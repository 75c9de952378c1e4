package analyzer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the root directory and reruns analysis whenever selected
// source files change. Events are debounced so a burst of editor writes
// triggers one rerun, and the aggregator's record cache keeps each rerun
// incremental.
type Watcher struct {
	aggregator   *Aggregator
	opts         Options
	onResult     func(*Result)
	discovery    *Discovery
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	logger       *slog.Logger
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher creates a watcher over opts.RootDir. Each completed rerun is
// delivered through onResult on the watch goroutine.
func NewWatcher(agg *Aggregator, opts Options, onResult func(*Result)) (*Watcher, error) {
	discovery, err := NewDiscovery(opts.RootDir, opts.Include, opts.Ignore, agg.registry.Extensions(opts.Languages))
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		aggregator:   agg,
		opts:         opts,
		onResult:     onResult,
		discovery:    discovery,
		watcher:      fsw,
		debounceTime: 500 * time.Millisecond,
		logger:       agg.logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(opts.RootDir); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the watch goroutine to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	rerunCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			relPath, _ := filepath.Rel(w.opts.RootDir, event.Name)
			changed[filepath.ToSlash(relPath)] = true

			// New directories need to join the watch set before anything
			// inside them changes.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case rerunCh <- struct{}{}:
				default:
				}
			})

		case <-rerunCh:
			w.rerun(ctx, changed)
			changed = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) rerun(ctx context.Context, changed map[string]bool) {
	if len(changed) == 0 {
		return
	}

	w.logger.Info("change detected, reanalyzing", "changed_files", len(changed))
	start := time.Now()

	result, err := w.aggregator.Run(ctx, w.opts)
	if err != nil {
		w.logger.Error("reanalysis failed", "error", err)
		return
	}

	w.logger.Info("reanalysis complete",
		"duration", time.Since(start),
		"files", len(result.Document.Files),
		"cache_hits", result.Stats.CacheHits)

	if w.onResult != nil {
		w.onResult(result)
	}
}

// shouldProcessEvent filters events down to writes, creates, and removes of
// selected source files. Directory creates pass so the watch set can grow.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}

	relPath, err := filepath.Rel(w.opts.RootDir, event.Name)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return event.Op&fsnotify.Create != 0 && !w.discovery.shouldIgnore(relPath)
	}

	return w.discovery.Selects(relPath)
}

func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(w.opts.RootDir, path)
		if err != nil {
			return nil
		}
		if relPath != "." && w.discovery.shouldIgnore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}
