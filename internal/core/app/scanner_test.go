package app

import (
	"path/filepath"
	"reflect"
	"testing"

	"mjson5/internal/core/config"
	"mjson5/internal/core/errors"
)

func discoverFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "a.mjson5", messyDoc)
	writeFile(t, dir, "b.txt", messyDoc)
	writeFile(t, dir, "node_modules/c.mjson5", messyDoc)
	writeFile(t, dir, "skip.mjson5", messyDoc)
	writeFile(t, dir, "sub/d.mustache_json5", messyDoc)
	writeFile(t, dir, "sub/e.MJSON5", messyDoc)
	return dir
}

func TestDiscoverWalksDirectories(t *testing.T) {
	dir := discoverFixture(t)
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Files.ExcludeFiles = []string{"skip.*"}
	})

	files, err := app.Discover([]string{dir})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.mjson5"),
		filepath.Join(dir, "sub", "d.mustache_json5"),
		filepath.Join(dir, "sub", "e.MJSON5"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestDiscoverIncludePatterns(t *testing.T) {
	dir := discoverFixture(t)
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Files.Include = []string{"sub/*.mustache_json5"}
	})

	files, err := app.Discover([]string{dir})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{filepath.Join(dir, "sub", "d.mustache_json5")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestDiscoverExplicitFilesAndDuplicates(t *testing.T) {
	dir := discoverFixture(t)
	app := newTestApp(t, nil)

	txt := filepath.Join(dir, "b.txt")
	a := filepath.Join(dir, "a.mjson5")
	files, err := app.Discover([]string{txt, a, dir})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(files) < 2 || files[0] != txt || files[1] != a {
		t.Fatalf("explicit files must come first in order: %v", files)
	}
	seen := make(map[string]bool)
	for _, f := range files {
		if seen[f] {
			t.Fatalf("duplicate %s in %v", f, files)
		}
		seen[f] = true
	}
	if seen[filepath.Join(dir, "node_modules", "c.mjson5")] {
		t.Fatalf("excluded directory was walked: %v", files)
	}
}

func TestDiscoverGlobPattern(t *testing.T) {
	dir := discoverFixture(t)
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Files.ExcludeFiles = []string{"skip.*"}
	})

	files, err := app.Discover([]string{filepath.ToSlash(dir) + "/**.mjson5"})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mjson5")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestDiscoverMissingPath(t *testing.T) {
	app := newTestApp(t, nil)
	_, err := app.Discover([]string{filepath.Join(t.TempDir(), "nope")})
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
