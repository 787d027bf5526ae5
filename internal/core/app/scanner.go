package app

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"mjson5/internal/core/app/helpers"
	"mjson5/internal/core/config"
	cfghelpers "mjson5/internal/core/config/helpers"
	"mjson5/internal/core/errors"
	"mjson5/internal/shared/util"
)

// fileFilter decides which files a directory walk picks up. Relative paths
// are slash separated and relative to the walk root.
type fileFilter struct {
	extensions   map[string]bool
	include      *helpers.Matcher
	excludeDirs  *helpers.Matcher
	excludeFiles *helpers.Matcher
}

func newFileFilter(files config.Files) (*fileFilter, error) {
	include, err := helpers.NewMatcher(files.Include, "include")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile file filters")
	}
	excludeDirs, err := helpers.NewMatcher(files.ExcludeDirs, "exclude dir")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile file filters")
	}
	excludeFiles, err := helpers.NewMatcher(files.ExcludeFiles, "exclude file")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile file filters")
	}
	exts := make(map[string]bool, len(files.Extensions))
	for _, ext := range files.Extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &fileFilter{
		extensions:   exts,
		include:      include,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
	}, nil
}

func (f *fileFilter) included(rel string) bool {
	return f.include.Empty() || f.include.Match(rel)
}

func (f *fileFilter) accept(rel string) bool {
	if !f.extensions[strings.ToLower(path.Ext(rel))] {
		return false
	}
	return !f.excludeFiles.Match(rel) && f.included(rel)
}

// Discover expands paths into the files a run formats, in walk order and
// without duplicates. Files named directly are always taken. Directories
// are walked with the configured filters. Glob patterns match files under
// their literal prefix regardless of extension. No paths means the
// current directory.
func (a *App) Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	filter, err := newFileFilter(a.Config().Files)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, p := range paths {
		if cfghelpers.HasWildcard(p) {
			matches, err := discoverPattern(p, filter)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			code := errors.CodeIO
			if os.IsNotExist(err) {
				code = errors.CodeNotFound
			}
			return nil, errors.AddContext(errors.Wrap(err, code, "stat input path"), errors.CtxPath, p)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		matches, err := walkRoot(p, filter)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func walkRoot(root string, filter *fileFilter) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = util.NormalizePatternPath(rel)
		if d.IsDir() {
			if path != root && filter.excludeDirs.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.accept(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "walk directory"), errors.CtxPath, root)
	}
	return files, nil
}

func discoverPattern(pattern string, filter *fileFilter) ([]string, error) {
	normalized := util.NormalizePatternPath(pattern)
	g, err := glob.Compile(normalized, '/')
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "compile input pattern"), errors.CtxPath, pattern)
	}
	base := filepath.Dir(filepath.FromSlash(cfghelpers.WildcardPrefix(normalized)))
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := util.NormalizePatternPath(path)
		if d.IsDir() {
			if path != base && filter.excludeDirs.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if g.Match(rel) && !filter.excludeFiles.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "walk directory"), errors.CtxPath, base)
	}
	return files, nil
}
