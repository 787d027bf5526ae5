package app

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"mjson5/internal/core/config"
	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
	"mjson5/internal/core/watcher"
	"mjson5/internal/engine/format"
	"mjson5/internal/shared/util"
)

// App owns the formatter, the parsing backend and the watch state shared by
// the CLI commands.
type App struct {
	mu        sync.RWMutex
	cfg       *config.Config
	formatter *format.Formatter
	parser    ports.SyntaxParser
	backend   string

	watchMu       sync.Mutex
	activeWatcher *watcher.Watcher
	watchRoots    []string
	watchCtx      context.Context
	writeLimiter  *util.Limiter
	fileLimiters  *util.LimiterRegistry

	updateMu sync.RWMutex
	onUpdate func(ports.FormatSummary)
}

// Dependencies lets callers replace the parsing backend, mainly in tests.
type Dependencies struct {
	Parser  ports.SyntaxParser
	Backend string
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is nil")
	}
	p, backend, err := buildParser(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(cfg, Dependencies{Parser: p, Backend: backend})
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is nil")
	}
	f, err := format.New(cfg.Format, deps.Parser)
	if err != nil {
		return nil, err
	}
	backend := deps.Backend
	if backend == "" {
		backend = config.BackendNative
	}
	return &App{
		cfg:       cfg,
		formatter: f,
		parser:    deps.Parser,
		backend:   backend,
	}, nil
}

func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

func (a *App) Formatter() *format.Formatter {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.formatter
}

// Backend names the parsing engine in use.
func (a *App) Backend() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.backend
}

// UpdateConfig swaps in cfg after a reload. Format options and file filters
// apply to the next run; a grammar change needs a restart.
func (a *App) UpdateConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New(errors.CodeValidationError, "config is nil")
	}
	a.mu.Lock()
	f, err := format.New(cfg.Format, a.parser)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	if !reflect.DeepEqual(a.cfg.Grammar, cfg.Grammar) {
		slog.Warn("grammar settings changed; restart to switch backend", "backend", a.backend)
	}
	a.cfg = cfg
	a.formatter = f
	a.mu.Unlock()

	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.activeWatcher != nil {
		a.activeWatcher.SetExtensions(cfg.Files.Extensions)
		a.activeWatcher.SetDebounce(cfg.Watch.Debounce)
	}
	return nil
}

// SetUpdateHandler registers fn to receive the summary of every
// watch-triggered run.
func (a *App) SetUpdateHandler(fn func(ports.FormatSummary)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = fn
}

func (a *App) notify(summary ports.FormatSummary) {
	a.updateMu.RLock()
	fn := a.onUpdate
	a.updateMu.RUnlock()
	if fn != nil {
		fn(summary)
	}
}

// Close stops the watcher, if one is running.
func (a *App) Close() error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	var err error
	if a.activeWatcher != nil {
		err = a.activeWatcher.Close()
		a.activeWatcher = nil
	}
	if a.fileLimiters != nil {
		a.fileLimiters.Close()
		a.fileLimiters = nil
	}
	return err
}
