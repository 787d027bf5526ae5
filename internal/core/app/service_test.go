package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
)

func serviceFixture(t *testing.T) (dir, broken, good, messy string) {
	t.Helper()
	dir = t.TempDir()
	broken = writeFile(t, dir, "broken.mjson5", brokenDoc)
	good = writeFile(t, dir, "good.mjson5", formattedDoc)
	messy = writeFile(t, dir, "messy.mjson5", messyDoc)
	return dir, broken, good, messy
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFormatServiceRunCheck(t *testing.T) {
	dir, broken, good, messy := serviceFixture(t)
	svc := newTestApp(t, nil).FormatService()

	summary, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{dir}, Mode: ports.ModeCheck})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if summary.Total != 3 || summary.Changed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	order := []string{broken, good, messy}
	for i, r := range summary.Files {
		if r.Path != order[i] {
			t.Fatalf("result %d is %s, want %s", i, r.Path, order[i])
		}
	}
	if !errors.IsCode(summary.Files[0].Err, errors.CodeSyntax) {
		t.Fatalf("expected syntax error, got %v", summary.Files[0].Err)
	}
	if summary.Files[1].Changed || !summary.Files[2].Changed {
		t.Fatalf("unexpected change flags: %+v", summary.Files)
	}
	if readFile(t, messy) != messyDoc {
		t.Fatal("check mode must not write files")
	}
}

func TestFormatServiceRunWrite(t *testing.T) {
	dir, broken, good, messy := serviceFixture(t)
	if err := os.Chmod(messy, 0o600); err != nil {
		t.Fatal(err)
	}
	svc := newTestApp(t, nil).FormatService()

	summary, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{dir}, Mode: ports.ModeWrite})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Changed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := readFile(t, messy); got != formattedDoc {
		t.Fatalf("messy = %q, want %q", got, formattedDoc)
	}
	if got := readFile(t, good); got != formattedDoc {
		t.Fatalf("good file changed to %q", got)
	}
	if got := readFile(t, broken); got != brokenDoc {
		t.Fatalf("broken file changed to %q", got)
	}
	info, err := os.Stat(messy)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFormatServiceRunStdout(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.mjson5", messyDoc)
	svc := newTestApp(t, nil).FormatService()

	summary, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{messy}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(summary.Files) != 1 || summary.Files[0].Output != formattedDoc {
		t.Fatalf("summary = %+v", summary)
	}
	if readFile(t, messy) != messyDoc {
		t.Fatal("stdout mode must not write files")
	}
}

func TestFormatServiceRunLeavesMissingFinalNewline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.mjson5", strings.TrimSuffix(formattedDoc, "\n"))
	svc := newTestApp(t, nil).FormatService()

	summary, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{path}, Mode: ports.ModeCheck})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Changed != 0 {
		t.Fatalf("a missing final newline is not a change: %+v", summary)
	}
}

func TestFormatServiceRunRejectsUnknownMode(t *testing.T) {
	svc := newTestApp(t, nil).FormatService()
	_, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{t.TempDir()}, Mode: "diff"})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestFormatServiceRunCancelled(t *testing.T) {
	dir, _, _, _ := serviceFixture(t)
	svc := newTestApp(t, nil).FormatService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Run(ctx, ports.FormatRequest{Paths: []string{dir}, Mode: ports.ModeCheck}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFormatServiceRunDiscoverFailure(t *testing.T) {
	svc := newTestApp(t, nil).FormatService()
	_, err := svc.Run(context.Background(), ports.FormatRequest{Paths: []string{filepath.Join(t.TempDir(), "nope")}})
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestFormatReader(t *testing.T) {
	svc := newTestApp(t, nil).FormatService()

	out, changed, err := svc.FormatReader(context.Background(), strings.NewReader(messyDoc))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != formattedDoc || !changed {
		t.Fatalf("got %q changed=%v", out, changed)
	}

	_, changed, err = svc.FormatReader(context.Background(), strings.NewReader(formattedDoc))
	if err != nil || changed {
		t.Fatalf("formatted input reported changed=%v err=%v", changed, err)
	}

	_, _, err = svc.FormatReader(context.Background(), strings.NewReader(brokenDoc))
	if !errors.IsCode(err, errors.CodeSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}
