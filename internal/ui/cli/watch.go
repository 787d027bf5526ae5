package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	coreapp "mjson5/internal/core/app"
	"mjson5/internal/core/config"
	"mjson5/internal/core/ports"
)

func (s *session) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Format templates in place as they change",
		Long: `Watch directories, the current one by default, and rewrite matching
files whenever they change. The config file is reloaded on save. With
observability.metrics_addr set, /metrics and /health are served.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.watch(ctx, cmd, args)
		},
	}
}

func (s *session) watch(ctx context.Context, cmd *cobra.Command, args []string) error {
	app, err := s.newApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	app.SetUpdateHandler(func(summary ports.FormatSummary) {
		printWatchUpdate(out, summary)
	})

	if addr := s.cfg.Observability.MetricsAddr; addr != "" {
		srv := NewObservabilityServer(addr, coreapp.NewHealthService(app))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Warn("failed to stop observability server", "error", err)
			}
		}()
	}

	if s.cfgPath != "" {
		flags := cmd.Flags()
		cw := config.NewWatcher(s.cfgPath, func(cfg *config.Config) {
			if err := applyFlagOverrides(cfg, flags); err != nil {
				slog.Warn("ignoring reloaded config", "error", err)
				return
			}
			if err := app.UpdateConfig(cfg); err != nil {
				slog.Warn("ignoring reloaded config", "error", err)
				return
			}
			slog.Debug("applied reloaded config", "path", s.cfgPath)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config reload disabled", "path", s.cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if err := app.StartWatcher(ctx, args); err != nil {
		return err
	}
	fmt.Fprintln(out, mutedStyle.Render("watching for changes, press Ctrl+C to stop"))
	<-ctx.Done()
	return nil
}

func printWatchUpdate(w io.Writer, summary ports.FormatSummary) {
	for _, r := range summary.Files {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", failedStyle.Render(markFail), r.Path, r.Err)
		case r.Changed:
			fmt.Fprintf(w, "%s %s %s\n", successStyle.Render(markOK), r.Path, mutedStyle.Render(r.Duration.Round(time.Microsecond).String()))
		}
	}
}
