package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	coreapp "mjson5/internal/core/app"
	"mjson5/internal/core/config"
	"mjson5/internal/core/errors"
	"mjson5/internal/shared/observability"
)

const configFileHint = config.FileName

// session holds what one invocation loads: configuration, logging, tracing
// and the application core.
type session struct {
	opts    rootOptions
	stderr  io.Writer
	cfg     *config.Config
	cfgPath string
	app     *coreapp.App

	restoreLog  func()
	stopTracing func(context.Context) error
}

func (s *session) load(cmd *cobra.Command) error {
	ctx := cmd.Context()
	previous := slog.Default()
	pending := newPendingLog()
	slog.SetDefault(slog.New(pending))

	cfg, path, err := config.LoadWithFallback(s.opts.configPath)
	if err == nil {
		if ferr := applyFlagOverrides(cfg, cmd.Flags()); ferr != nil {
			err = usageError(ferr)
		}
	}
	if err != nil {
		slog.SetDefault(previous)
		pending.replay(ctx, previous.Handler())
		return err
	}
	s.cfg = cfg
	s.cfgPath = path
	s.restoreLog = configureLogging(cfg.Log, s.opts.verbose, s.stderr, previous)
	pending.replay(ctx, slog.Default().Handler())
	if path != "" {
		slog.Debug("using config file", "path", path)
	}

	stop, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		s.stopTracing = stop
	}
	return nil
}

// newApp builds the application core once per invocation.
func (s *session) newApp() (*coreapp.App, error) {
	if s.app != nil {
		return s.app, nil
	}
	if s.cfg == nil {
		return nil, errors.New(errors.CodeInternal, "configuration not loaded")
	}
	app, err := coreapp.New(s.cfg)
	if err != nil {
		return nil, err
	}
	s.app = app
	return app, nil
}

func (s *session) close() {
	if s.app != nil {
		_ = s.app.Close()
	}
	if s.stopTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.stopTracing(ctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
		cancel()
	}
	if s.restoreLog != nil {
		s.restoreLog()
	}
}

// applyFlagOverrides copies explicitly set formatting flags onto cfg and
// revalidates it.
func applyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet) error {
	if flagChanged(flags, "indent-size") {
		cfg.Format.IndentSize, _ = flags.GetInt("indent-size")
	}
	if flagChanged(flags, "tab-width") {
		cfg.Format.TabWidth, _ = flags.GetInt("tab-width")
	}
	if flagChanged(flags, "use-tabs") {
		cfg.Format.UseTabs, _ = flags.GetBool("use-tabs")
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// configureLogging installs the default slog logger and returns a function
// restoring previous.
func configureLogging(logCfg config.Log, verbose bool, w io.Writer, previous *slog.Logger) func() {
	level := slog.LevelInfo
	switch strings.ToLower(logCfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(logCfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
	return func() { slog.SetDefault(previous) }
}
