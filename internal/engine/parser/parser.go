// # internal/engine/parser/parser.go

// Package parser is the native mustache_json5 parsing engine. It builds
// concrete syntax trees with tree-sitter style error recovery: unexpected
// input is wrapped in ERROR nodes and expected tokens that never appear are
// inserted as zero-width MISSING nodes, so Parse only fails on cancellation.
package parser

import (
	"context"

	"mjson5/internal/core/errors"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

type Parser struct {
	lang *grammar.Language
}

// New returns a parser driven by lang. The handle must describe the
// mustache_json5 grammar.
func New(lang *grammar.Language) (*Parser, error) {
	if lang == nil {
		return nil, errors.New(errors.CodeGrammar, "language handle is nil")
	}
	if lang.Name() != grammar.LanguageName {
		return nil, errors.Newf(errors.CodeGrammar, "unsupported language %q", lang.Name())
	}
	return &Parser{lang: lang}, nil
}

func (p *Parser) Language() *grammar.Language { return p.lang }

// Parse builds the syntax tree for src. Syntax errors are reported inside
// the tree; the returned error is non-nil only when ctx is done.
func (p *Parser) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	s := &state{lang: p.lang, src: src}
	root, err := s.sourceFile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "parse cancelled")
	}
	return syntax.NewTree(p.lang, src, root), nil
}

type state struct {
	lang *grammar.Language
	src  []byte
	pos  uint

	// extras holds comments skipped since the last flush.
	extras []*syntax.Node
	// closers is the stack of brackets expected by the open containers.
	closers []byte
}

func (s *state) sourceFile(ctx context.Context) (*syntax.Node, error) {
	var all []*syntax.Node
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.skipExtras()
		all = s.flush(all)
		if s.eof() {
			break
		}
		all = append(all, s.templateItem())
	}

	first, last := -1, -1
	for i, n := range all {
		if n.Symbol == grammar.SymComment {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return syntax.NewBranch(s.lang, grammar.SymSourceFile, 0, all...), nil
	}

	content := all[first : last+1]
	var body *syntax.Node
	if len(content) == 1 && isJSONValue(content[0].Symbol) {
		body = syntax.NewBranch(s.lang, grammar.SymJSON5Document, content[0].StartByte, content[0])
	} else {
		body = syntax.NewBranch(s.lang, grammar.SymTemplateDocument, content[0].StartByte, content...)
	}
	doc := syntax.NewBranch(s.lang, grammar.SymDocument, body.StartByte, body)

	children := make([]*syntax.Node, 0, first+1+len(all)-last-1)
	children = append(children, all[:first]...)
	children = append(children, doc)
	children = append(children, all[last+1:]...)
	return syntax.NewBranch(s.lang, grammar.SymSourceFile, 0, children...), nil
}

func isJSONValue(sym grammar.Symbol) bool {
	switch sym {
	case grammar.SymObject, grammar.SymArray, grammar.SymString, grammar.SymNumber,
		grammar.SymNull, grammar.SymTrue, grammar.SymFalse:
		return true
	}
	return false
}

func (s *state) eof() bool { return s.pos >= uint(len(s.src)) }

func (s *state) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *state) at(prefix string) bool { return hasPrefix(s.src, s.pos, prefix) }

func (s *state) skipSpace() {
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// skipExtras advances over whitespace and comments. Comments are queued
// until the next flush.
func (s *state) skipExtras() {
	for {
		s.skipSpace()
		end := scanComment(s.src, s.pos)
		if end == s.pos {
			return
		}
		s.extras = append(s.extras, s.leaf(grammar.SymComment, end))
	}
}

func (s *state) flush(children []*syntax.Node) []*syntax.Node {
	if len(s.extras) == 0 {
		return children
	}
	children = append(children, s.extras...)
	s.extras = s.extras[:0]
	return children
}

func (s *state) leaf(sym grammar.Symbol, end uint) *syntax.Node {
	n := syntax.NewLeaf(s.lang, sym, s.pos, end)
	s.pos = end
	return n
}

func (s *state) missing(sym grammar.Symbol) *syntax.Node {
	return syntax.NewMissing(s.lang, sym, s.pos)
}

func (s *state) branch(sym grammar.Symbol, children ...*syntax.Node) *syntax.Node {
	return syntax.NewBranch(s.lang, sym, s.pos, children...)
}

func (s *state) errorBranch(children ...*syntax.Node) *syntax.Node {
	return s.branch(grammar.SymbolError, children...)
}

// errorLeaf consumes [pos, end) as one opaque error node.
func (s *state) errorLeaf(end uint) *syntax.Node {
	if end <= s.pos {
		end = s.pos + 1
	}
	return s.leaf(grammar.SymbolError, end)
}

func isCloser(c byte) bool { return c == '}' || c == ']' }

// expects reports whether an enclosing container, other than the innermost
// one, is waiting for closer.
func (s *state) expects(closer byte) bool {
	if len(s.closers) < 2 {
		return false
	}
	for _, c := range s.closers[:len(s.closers)-1] {
		if c == closer {
			return true
		}
	}
	return false
}

// templateItem parses one piece of template content: a mustache element, a
// JSON5 value or text. Anything else is wrapped in an ERROR node.
func (s *state) templateItem() *syntax.Node {
	if s.at("{{") {
		if t, ok := s.tag(); ok {
			return s.fromTag(t)
		}
	}
	switch s.peek() {
	case '{':
		return s.object()
	case '[':
		return s.array()
	case '}':
		return s.errorBranch(s.leaf(grammar.SymRBrace, s.pos+1))
	case ']':
		return s.errorBranch(s.leaf(grammar.SymRBracket, s.pos+1))
	case ',':
		return s.errorBranch(s.leaf(grammar.SymComma, s.pos+1))
	case ':':
		return s.errorBranch(s.leaf(grammar.SymColon, s.pos+1))
	}
	if n := s.scalar(); n != nil {
		return n
	}
	if end := scanText(s.src, s.pos); end > s.pos {
		return s.leaf(grammar.SymText, end)
	}
	return s.errorLeaf(scanLine(s.src, s.pos))
}

// scalar lexes a string, number or literal at pos. Ties with text go to the
// scalar; a longer text run wins.
func (s *state) scalar() *syntax.Node {
	textEnd := scanText(s.src, s.pos)
	if c := s.peek(); c == '"' || c == '\'' {
		if end := scanString(s.src, s.pos); end > s.pos && end >= textEnd {
			return s.leaf(grammar.SymString, end)
		}
	}
	if end := scanNumber(s.src, s.pos); end > s.pos && end >= textEnd {
		return s.leaf(grammar.SymNumber, end)
	}
	for _, kw := range keywords {
		if end := scanKeyword(s.src, s.pos, kw.word); end > s.pos && end >= textEnd {
			return s.leaf(kw.sym, end)
		}
	}
	return nil
}

var keywords = []struct {
	word string
	sym  grammar.Symbol
}{
	{"null", grammar.SymNull},
	{"true", grammar.SymTrue},
	{"false", grammar.SymFalse},
}
