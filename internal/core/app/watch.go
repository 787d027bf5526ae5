package app

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"mjson5/internal/core/app/helpers"
	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
	"mjson5/internal/core/watcher"
	"mjson5/internal/shared/observability"
	"mjson5/internal/shared/util"
)

// Each file may be rewritten at most once per second, with a burst of two,
// in addition to the configured global write rate.
const (
	fileWriteRate  = 1
	fileWriteBurst = 2
	fileLimiterTTL = time.Minute
)

// StartWatcher formats matching files in place whenever they change under
// paths. It returns once the watcher is running; Close or the end of ctx
// stops it.
func (a *App) StartWatcher(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	cfg := a.Config()
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Files.ExcludeDirs, cfg.Files.ExcludeFiles, a.HandleChanges)
	if err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "create watcher")
	}
	w.SetExtensions(cfg.Files.Extensions)

	burst := int(math.Max(1, math.Ceil(cfg.Watch.MaxWritesPerSecond)))
	roots := helpers.UniqueScanRoots(paths)

	a.watchMu.Lock()
	if a.activeWatcher != nil {
		a.watchMu.Unlock()
		_ = w.Close()
		return errors.New(errors.CodeInternal, "watcher already running")
	}
	a.activeWatcher = w
	a.watchRoots = roots
	a.watchCtx = ctx
	a.writeLimiter = util.NewLimiter(cfg.Watch.MaxWritesPerSecond, burst)
	a.fileLimiters = util.NewLimiterRegistry(fileWriteRate, fileWriteBurst, fileLimiterTTL)
	a.watchMu.Unlock()

	if err := w.Watch(roots); err != nil {
		_ = a.Close()
		return errors.Wrap(err, errors.CodeIO, "watch paths")
	}
	go func() {
		<-ctx.Done()
		_ = a.Close()
	}()
	slog.Info("watching for changes", "roots", roots, "debounce", cfg.Watch.Debounce)
	return nil
}

// HandleChanges formats the changed files in place. Files outside the
// include patterns, or over the write rate, are skipped.
func (a *App) HandleChanges(paths []string) {
	a.watchMu.Lock()
	ctx := a.watchCtx
	roots := a.watchRoots
	global := a.writeLimiter
	perFile := a.fileLimiters
	a.watchMu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}

	filter, err := newFileFilter(a.Config().Files)
	if err != nil {
		slog.Error("invalid file filters", "error", err)
		return
	}

	allowed := make([]string, 0, len(paths))
	for _, path := range paths {
		if !filter.include.Empty() {
			root, err := helpers.FindContainingRoot(path, roots)
			if err != nil {
				continue
			}
			rel, err := filepath.Rel(root, path)
			if err != nil || !filter.included(rel) {
				continue
			}
		}
		if global != nil && !global.Allow(1) {
			observability.WatcherWritesDropped.Inc()
			slog.Warn("write rate exceeded, skipping file", "path", path)
			continue
		}
		if perFile != nil && !perFile.Get(path).Allow(1) {
			observability.WatcherWritesDropped.Inc()
			slog.Warn("file rewritten too often, skipping", "path", path)
			continue
		}
		allowed = append(allowed, path)
	}
	if len(allowed) == 0 {
		return
	}

	summary, err := a.FormatService().Run(ctx, ports.FormatRequest{Paths: allowed, Mode: ports.ModeWrite})
	if err != nil {
		slog.Error("watch format run failed", "error", err)
		return
	}
	a.notify(summary)
}
