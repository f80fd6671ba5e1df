// Package watchmode re-renders the workspace whenever the catalog or an
// input video changes. Events are debounced so a burst of writes (a large
// upload, an editor save) triggers a single render.
package watchmode

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smcclab/video-stitcher/internal/config"
	"github.com/smcclab/video-stitcher/internal/logging"
)

// Trigger is invoked after the debounce window closes following a relevant
// filesystem change.
type Trigger func(ctx context.Context) error

// Watcher monitors the inputs directory and the catalog file.
type Watcher struct {
	cfg      *config.Config
	logger   *slog.Logger
	trigger  Trigger
	debounce time.Duration
}

// Option configures optional Watcher behavior.
type Option func(*Watcher)

// WithDebounce overrides the debounce window from config.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New constructs a Watcher. The trigger runs sequentially; events arriving
// while it executes schedule one follow-up render.
func New(cfg *config.Config, logger *slog.Logger, trigger Trigger, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "watch"),
		trigger:  trigger,
		debounce: time.Duration(cfg.Workflow.WatchDebounceSeconds) * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks watching for changes until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.cfg.EnsureDirectories(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watchDirs := []string{w.cfg.Paths.InputsDir, filepath.Dir(w.cfg.Paths.CatalogFile)}
	for _, dir := range watchDirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching for changes",
		logging.String("inputs_dir", w.cfg.Paths.InputsDir),
		logging.String("catalog", w.cfg.Paths.CatalogFile),
		logging.Duration("debounce", w.debounce),
	)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				logging.String(logging.FieldPath, event.Name),
				logging.String("op", event.Op.String()),
			)
			pending = true
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.trigger(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("render after change failed", logging.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	if event.Name == w.cfg.Paths.CatalogFile {
		return true
	}
	if filepath.Dir(event.Name) != w.cfg.Paths.InputsDir {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, known := range w.cfg.Encode.Extensions {
		if ext == known {
			return true
		}
	}
	return false
}
