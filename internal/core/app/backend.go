package app

import (
	"log/slog"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/core/config"
	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/parser"
	"mjson5/internal/engine/treesitter"
)

// buildParser returns the engine selected by the grammar settings. A
// manifest takes precedence over a bare shared object.
func buildParser(g config.Grammar) (ports.SyntaxParser, string, error) {
	lang := grammar.MustacheJSON5()
	switch g.Backend {
	case "", config.BackendNative:
		p, err := parser.New(lang)
		if err != nil {
			return nil, "", err
		}
		return p, config.BackendNative, nil

	case config.BackendTreeSitter:
		var (
			compiled *sitter.Language
			err      error
		)
		if g.Manifest != "" {
			compiled, err = treesitter.LoadVerified(g.Manifest, g.VerifyEnabled())
		} else {
			compiled, err = treesitter.LoadDynamic(g.SharedObject)
		}
		if err != nil {
			return nil, "", err
		}
		b, err := treesitter.NewBackend(compiled, lang)
		if err != nil {
			return nil, "", err
		}
		slog.Debug("loaded compiled grammar", "manifest", g.Manifest, "shared_object", g.SharedObject)
		return b, config.BackendTreeSitter, nil
	}
	return nil, "", errors.Newf(errors.CodeNotSupported, "unknown grammar backend %q", g.Backend)
}
