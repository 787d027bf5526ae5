package helpers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"mjson5/internal/shared/util"
)

// CompileGlobs compiles patterns with '/' as the only separator, so `*`
// stays within one path segment and `**` spans directories.
func CompileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", label, p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func MatchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}

// Matcher applies patterns without a separator to base names and patterns
// with one to slash separated relative paths.
type Matcher struct {
	names []glob.Glob
	paths []glob.Glob
}

func NewMatcher(patterns []string, label string) (*Matcher, error) {
	var names, paths []string
	for _, p := range patterns {
		if util.ContainsPathSeparator(p) {
			paths = append(paths, util.NormalizePatternPath(p))
		} else {
			names = append(names, p)
		}
	}
	m := &Matcher{}
	var err error
	if m.names, err = CompileGlobs(names, label); err != nil {
		return nil, err
	}
	if m.paths, err = CompileGlobs(paths, label); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matcher) Empty() bool { return len(m.names) == 0 && len(m.paths) == 0 }

// Match reports whether rel, a slash separated relative path, matches.
func (m *Matcher) Match(rel string) bool {
	rel = util.NormalizePatternPath(rel)
	return MatchAny(m.names, path.Base(rel)) || MatchAny(m.paths, rel)
}

func UniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}

// FindContainingRoot returns the first root that contains path.
func FindContainingRoot(path string, roots []string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve file path %q: %w", path, err)
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve root %q: %w", root, err)
		}

		rel, err := filepath.Rel(absRoot, absPath)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))) {
			return absRoot, nil
		}
	}

	return "", fmt.Errorf("file %q is not under any watched path", path)
}
