package ports

import (
	"context"
	"io"
	"time"

	"mjson5/internal/engine/syntax"
)

// SyntaxParser abstracts the parsing engine, native or compiled grammar.
type SyntaxParser interface {
	Parse(ctx context.Context, src []byte) (*syntax.Tree, error)
}

// SourceFormatter formats one mustache_json5 document.
type SourceFormatter interface {
	Format(ctx context.Context, src []byte) (string, error)
}

// Mode selects what a format run does with its results.
type Mode string

const (
	ModeStdout Mode = "stdout"
	ModeCheck  Mode = "check"
	ModeWrite  Mode = "write"
)

// FormatRequest defines a format operation for driving adapters.
type FormatRequest struct {
	Paths []string
	Mode  Mode
}

// FileResult is the outcome for one file. Output is set in stdout mode.
type FileResult struct {
	Path     string
	Changed  bool
	Output   string
	Err      error
	Duration time.Duration
}

// FormatSummary aggregates a completed run. Files keeps input order.
type FormatSummary struct {
	RunID   string
	Files   []FileResult
	Total   int
	Changed int
	Failed  int
}

// FormatService is the application surface used by the CLI and the watcher.
type FormatService interface {
	Run(ctx context.Context, req FormatRequest) (FormatSummary, error)
	FormatReader(ctx context.Context, r io.Reader) (formatted string, changed bool, err error)
	Discover(paths []string) ([]string, error)
}
