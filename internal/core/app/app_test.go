package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mjson5/internal/core/config"
	"mjson5/internal/core/errors"
)

const (
	formattedDoc = "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	messyDoc     = `{"a":1,"b":2}`
	brokenDoc    = `[1 2`
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	app, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := NewWithDependencies(nil, Dependencies{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Grammar.Backend = "wasm"
	_, err := New(cfg)
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestNewTreeSitterMissingLibrary(t *testing.T) {
	cfg := config.Default()
	cfg.Grammar.Backend = config.BackendTreeSitter
	cfg.Grammar.SharedObject = filepath.Join(t.TempDir(), "missing.so")
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing grammar library")
	}
}

func TestNewDefaultsToNativeBackend(t *testing.T) {
	app := newTestApp(t, nil)
	if got := app.Backend(); got != config.BackendNative {
		t.Fatalf("backend = %q, want %q", got, config.BackendNative)
	}
}

func TestUpdateConfig(t *testing.T) {
	app := newTestApp(t, nil)

	cfg := config.Default()
	cfg.Format.IndentSize = 4
	if err := app.UpdateConfig(cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}
	if app.Config() != cfg {
		t.Fatal("config was not swapped")
	}
	out, _, err := app.FormatService().FormatReader(context.Background(), strings.NewReader(messyDoc))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if want := "{\n    \"a\": 1,\n    \"b\": 2\n}\n"; out != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	bad := config.Default()
	bad.Format.IndentSize = 0
	bad.Format.TabWidth = -1
	if err := app.UpdateConfig(bad); err == nil {
		t.Fatal("expected invalid options to be rejected")
	}
	if app.Config() != cfg {
		t.Fatal("rejected config must not replace the current one")
	}
	if err := app.UpdateConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mjson5", `{"a": {{value}}}`)
	app := newTestApp(t, nil)

	tree, err := app.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tree.HasError() {
		t.Fatalf("unexpected errors in %s", tree.String())
	}
	if !strings.Contains(tree.String(), "mustache_interpolation") {
		t.Fatalf("tree %s has no interpolation", tree.String())
	}

	_, err = app.Parse(context.Background(), filepath.Join(dir, "missing.mjson5"))
	if !errors.IsCode(err, errors.CodeIO) {
		t.Fatalf("expected IO error, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, nil)
	status := NewHealthService(app).Check(context.Background())
	if status.Status != "up" {
		t.Fatalf("status = %q, want up", status.Status)
	}
	if got := status.Components["parser"]; got != "ok (native)" {
		t.Fatalf("parser component = %q", got)
	}
	if got := status.Components["watcher"]; got != "stopped" {
		t.Fatalf("watcher component = %q", got)
	}
	if got := status.Components["memory"]; !strings.Contains(got, "MB heap") || !strings.Contains(got, "goroutines") {
		t.Fatalf("memory component = %q", got)
	}
}
