// Package tree_sitter_mustache_json5 is the host binding for the
// mustache_json5 grammar, named after the tree_sitter_mustache_json5 symbol
// exported by compiled grammars.
package tree_sitter_mustache_json5

import "mjson5/internal/engine/grammar"

// Language returns the mustache_json5 language definition.
func Language() *grammar.Language {
	return grammar.MustacheJSON5()
}
