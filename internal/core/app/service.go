package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
	"mjson5/internal/engine/format"
	"mjson5/internal/engine/syntax"
	"mjson5/internal/shared/observability"
	"mjson5/internal/shared/util"
)

type formatService struct {
	app *App
}

var _ ports.FormatService = (*formatService)(nil)

func NewFormatService(app *App) ports.FormatService {
	return &formatService{app: app}
}

func (a *App) FormatService() ports.FormatService {
	return NewFormatService(a)
}

// Run formats every discovered file. Per-file failures are reported in the
// summary; the returned error is set when discovery fails or ctx is done.
func (s *formatService) Run(ctx context.Context, req ports.FormatRequest) (ports.FormatSummary, error) {
	mode := req.Mode
	if mode == "" {
		mode = ports.ModeStdout
	}
	ctx, span := observability.Tracer.Start(ctx, "formatService.Run", trace.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.Int("paths", len(req.Paths)),
	))
	defer span.End()

	summary := ports.FormatSummary{RunID: uuid.NewString()}
	switch mode {
	case ports.ModeStdout, ports.ModeCheck, ports.ModeWrite:
	default:
		return summary, errors.Newf(errors.CodeValidationError, "unknown mode %q", mode)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	files, err := s.app.Discover(req.Paths)
	if err != nil {
		return summary, errors.AddContext(err, errors.CtxOperation, "discover")
	}
	logger := slog.With("run_id", summary.RunID)
	logger.Debug("format run started", "mode", mode, "files", len(files))

	results := make([]ports.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.app.processFile(gctx, path, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return summary, err
	}

	summary.Files = results
	summary.Total = len(results)
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
			logger.Warn("format failed", "path", r.Path, "error", r.Err)
		case r.Changed:
			summary.Changed++
		}
	}
	span.SetAttributes(
		attribute.Int("files.total", summary.Total),
		attribute.Int("files.changed", summary.Changed),
		attribute.Int("files.failed", summary.Failed),
	)
	logger.Debug("format run finished",
		"mode", mode,
		"total", summary.Total,
		"changed", summary.Changed,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *formatService) FormatReader(ctx context.Context, r io.Reader) (string, bool, error) {
	ctx, span := observability.Tracer.Start(ctx, "formatService.FormatReader")
	defer span.End()

	src, err := io.ReadAll(r)
	if err != nil {
		return "", false, errors.Wrap(err, errors.CodeIO, "read input")
	}
	out, err := s.app.format(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "format failed")
		return "", false, errors.AddContext(err, errors.CtxPath, "<stdin>")
	}
	return out, format.Changed(string(src), out), nil
}

func (s *formatService) Discover(paths []string) ([]string, error) {
	return s.app.Discover(paths)
}

// format runs the current formatter and records metrics for one document.
func (a *App) format(ctx context.Context, src []byte) (string, error) {
	start := time.Now()
	out, err := a.Formatter().Format(ctx, src)
	observability.FormatDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.IsCode(err, errors.CodeSyntax) {
			observability.ParseErrorsTotal.Inc()
		}
		observability.FilesProcessed.WithLabelValues(observability.ResultFailed).Inc()
		return "", err
	}
	return out, nil
}

func (a *App) processFile(ctx context.Context, path string, mode ports.Mode) ports.FileResult {
	ctx, span := observability.Tracer.Start(ctx, "formatService.processFile", trace.WithAttributes(
		attribute.String("path", path),
	))
	defer span.End()

	start := time.Now()
	result := ports.FileResult{Path: path}
	fail := func(err error) ports.FileResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, "format file failed")
		result.Err = errors.AddContext(err, errors.CtxPath, path)
		result.Duration = time.Since(start)
		return result
	}

	src, err := os.ReadFile(path)
	if err != nil {
		observability.FilesProcessed.WithLabelValues(observability.ResultFailed).Inc()
		return fail(errors.Wrap(err, errors.CodeIO, "read file"))
	}
	out, err := a.format(ctx, src)
	if err != nil {
		return fail(err)
	}
	result.Changed = format.Changed(string(src), out)

	switch mode {
	case ports.ModeStdout:
		result.Output = out
	case ports.ModeWrite:
		if result.Changed {
			a.markWritten(path, []byte(out))
			if err := util.ReplaceFile(path, []byte(out)); err != nil {
				observability.FilesProcessed.WithLabelValues(observability.ResultFailed).Inc()
				return fail(errors.Wrap(err, errors.CodeIO, "write file"))
			}
		}
	}

	if result.Changed {
		observability.FilesProcessed.WithLabelValues(observability.ResultChanged).Inc()
	} else {
		observability.FilesProcessed.WithLabelValues(observability.ResultUnchanged).Inc()
	}
	result.Duration = time.Since(start)
	slog.Debug("formatted file", "path", path, "changed", result.Changed, "duration", result.Duration)
	return result
}

// Parse returns the syntax tree of the file at path.
func (a *App) Parse(ctx context.Context, path string) (*syntax.Tree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read file"), errors.CtxPath, path)
	}
	return a.ParseSource(ctx, src)
}

func (a *App) ParseSource(ctx context.Context, src []byte) (*syntax.Tree, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Parse", trace.WithAttributes(
		attribute.String("backend", a.Backend()),
	))
	defer span.End()
	return a.Formatter().Parser().Parse(ctx, src)
}

func (a *App) markWritten(path string, content []byte) {
	a.watchMu.Lock()
	w := a.activeWatcher
	a.watchMu.Unlock()
	if w == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.MarkWritten(path, content)
}
