package treesitter

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/core/errors"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

// Backend parses with a compiled grammar and reports trees in terms of the
// native language handle, so both engines feed the same consumers.
type Backend struct {
	lang *grammar.Language
	pool *ParserPool
}

func NewBackend(compiled *sitter.Language, lang *grammar.Language) (*Backend, error) {
	if compiled == nil || lang == nil {
		return nil, errors.New(errors.CodeGrammar, "backend needs a compiled grammar and a language handle")
	}
	probe := sitter.NewParser()
	defer probe.Close()
	if err := probe.SetLanguage(compiled); err != nil {
		return nil, errors.Wrap(err, errors.CodeGrammar, "incompatible compiled grammar")
	}
	return &Backend{lang: lang, pool: NewParserPool(compiled)}, nil
}

func (b *Backend) Language() *grammar.Language { return b.lang }

func (b *Backend) Pool() *ParserPool { return b.pool }

func (b *Backend) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "parse cancelled")
	}
	sp := b.pool.Get()
	defer b.pool.Put(sp)

	tree := sp.Parse(src, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeGrammar, "tree-sitter returned no tree")
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()
	root := b.convert(cursor)
	return syntax.NewTree(b.lang, src, root), nil
}

// convert copies the subtree under the cursor. Kinds the handle does not
// know become ERROR nodes.
func (b *Backend) convert(c *sitter.TreeCursor) *syntax.Node {
	n := c.Node()
	sym := b.symbolOf(n)
	start := uint(n.StartByte())

	if c.GotoFirstChild() {
		var children []*syntax.Node
		for {
			child := b.convert(c)
			if name := c.FieldName(); name != "" {
				if id, ok := b.lang.FieldIDForName(name); ok {
					child.WithField(id)
				}
			}
			children = append(children, child)
			if !c.GotoNextSibling() {
				break
			}
		}
		c.GotoParent()
		return syntax.NewBranch(b.lang, sym, start, children...)
	}
	if n.IsMissing() {
		return syntax.NewMissing(b.lang, sym, start)
	}
	return syntax.NewLeaf(b.lang, sym, start, uint(n.EndByte()))
}

func (b *Backend) symbolOf(n *sitter.Node) grammar.Symbol {
	if n.IsError() {
		return grammar.SymbolError
	}
	if sym, ok := b.lang.SymbolForName(n.Kind(), n.IsNamed()); ok {
		return sym
	}
	return grammar.SymbolError
}
