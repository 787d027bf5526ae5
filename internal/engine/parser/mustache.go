package parser

import (
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

type tagKind int

const (
	tagBad tagKind = iota
	tagComment
	tagInterpolation
	tagUnescaped
	tagPartial
	tagBegin
	tagInvertedBegin
	tagEnd
)

// tag is one parsed `{{ ... }}` element. For sections only the begin tag is
// held; the body is parsed by section.
type tag struct {
	kind tagKind
	node *syntax.Node
}

// tag parses the mustache element at pos. A tag that cannot be parsed is
// consumed as one opaque ERROR node up to its closing braces. It returns
// false, consuming nothing, when the braces open a JSON5 object instead.
func (s *state) tag() (tag, bool) {
	start := s.pos
	if t, ok := s.tryTag(); ok {
		return t, true
	}
	s.pos = start
	if s.objectAhead(start) {
		return tag{}, false
	}
	return tag{kind: tagBad, node: s.errorLeaf(scanTagRecovery(s.src, start+2))}, true
}

// objectAhead reports whether the `{{` at start is an object brace followed
// by either a valid tag or a quoted member name.
func (s *state) objectAhead(start uint) bool {
	s.pos = start + 1
	_, ok := s.tryTag()
	s.pos = start
	if ok {
		return true
	}
	i := start + 2
	for i < uint(len(s.src)) && isSpace(s.src[i]) {
		i++
	}
	return i < uint(len(s.src)) && (s.src[i] == '"' || s.src[i] == '\'' || s.src[i] == '[')
}

// tryTag parses a tag at pos. On failure pos is left wherever parsing
// stopped; callers restore it.
func (s *state) tryTag() (tag, bool) {
	if !s.at("{{") {
		return tag{}, false
	}
	children := []*syntax.Node{s.leaf(grammar.SymOpenTag, s.pos+2)}
	s.skipSpace()

	switch s.peek() {
	case '!':
		children = append(children, s.leaf(grammar.SymBang, s.pos+1))
		s.skipSpace()
		end := s.pos
		for end < uint(len(s.src)) && s.src[end] != '}' {
			end++
		}
		if end == s.pos {
			return tag{}, false
		}
		children = append(children, s.leaf(grammar.SymCommentContent, end))
		return s.closeTag(tagComment, grammar.SymMustacheComment, children)

	case '#', '^':
		kind, sym, op := tagBegin, grammar.SymMustacheSectionBegin, grammar.SymHash
		if s.peek() == '^' {
			kind, sym, op = tagInvertedBegin, grammar.SymMustacheInvertedSectionBegin, grammar.SymCaret
		}
		children = append(children, s.leaf(op, s.pos+1))
		s.skipSpace()
		name, ok := s.name(grammar.SymTagName, dotExtra)
		if !ok {
			return tag{}, false
		}
		children = append(children, name)
		s.skipSpace()
		if !s.paramsAhead() {
			if expr, ok := s.expression(); ok {
				children = append(children, expr)
				s.skipSpace()
			}
		}
		if params, ok := s.sectionParameters(); ok {
			children = append(children, params)
		}
		return s.closeTag(kind, sym, children)

	case '/':
		children = append(children, s.leaf(grammar.SymSlash, s.pos+1))
		s.skipSpace()
		name, ok := s.name(grammar.SymTagName, dotExtra)
		if !ok {
			return tag{}, false
		}
		children = append(children, name)
		return s.closeTag(tagEnd, grammar.SymMustacheSectionEnd, children)

	case '>':
		children = append(children, s.leaf(grammar.SymGreater, s.pos+1))
		s.skipSpace()
		name, ok := s.name(grammar.SymPartialName, partialExtra)
		if !ok {
			return tag{}, false
		}
		children = append(children, name)
		return s.closeTag(tagPartial, grammar.SymMustachePartial, children)

	case '{':
		children = append(children, s.leaf(grammar.SymLBrace, s.pos+1))
		s.skipSpace()
		expr, ok := s.expression()
		if !ok {
			return tag{}, false
		}
		children = append(children, expr)
		s.skipSpace()
		if s.peek() != '}' {
			return tag{}, false
		}
		children = append(children, s.leaf(grammar.SymRBrace, s.pos+1))
		return s.closeTag(tagUnescaped, grammar.SymMustacheUnescaped, children)

	case '&':
		children = append(children, s.leaf(grammar.SymAmpersand, s.pos+1))
		s.skipSpace()
		expr, ok := s.expression()
		if !ok {
			return tag{}, false
		}
		children = append(children, expr)
		return s.closeTag(tagUnescaped, grammar.SymMustacheUnescaped, children)
	}

	expr, ok := s.expression()
	if !ok {
		return tag{}, false
	}
	children = append(children, expr)
	return s.closeTag(tagInterpolation, grammar.SymMustacheInterpolation, children)
}

func (s *state) closeTag(kind tagKind, sym grammar.Symbol, children []*syntax.Node) (tag, bool) {
	s.skipSpace()
	if !s.at("}}") {
		return tag{}, false
	}
	children = append(children, s.leaf(grammar.SymCloseTag, s.pos+2))
	return tag{kind: kind, node: s.branch(sym, children...)}, true
}

func (s *state) name(sym grammar.Symbol, more func(byte) bool) (*syntax.Node, bool) {
	end := scanName(s.src, s.pos, more)
	if end == s.pos {
		return nil, false
	}
	return s.leaf(sym, end), true
}

// expression parses `.`, `name` or `a.b.c`.
func (s *state) expression() (*syntax.Node, bool) {
	if s.peek() == '.' {
		return s.leaf(grammar.SymDotExpression, s.pos+1), true
	}
	first, ok := s.name(grammar.SymIdentifierExpression, noExtra)
	if !ok {
		return nil, false
	}
	parts := []*syntax.Node{first}
	for s.peek() == '.' && scanName(s.src, s.pos+1, noExtra) > s.pos+1 {
		parts = append(parts, s.leaf(grammar.SymDot, s.pos+1))
		next, _ := s.name(grammar.SymIdentifierExpression, noExtra)
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return first, true
	}
	return s.branch(grammar.SymPathExpression, parts...), true
}

// paramsAhead reports whether pos starts `as |`.
func (s *state) paramsAhead() bool {
	end := scanKeyword(s.src, s.pos, "as")
	if end == s.pos {
		return false
	}
	for end < uint(len(s.src)) && isSpace(s.src[end]) {
		end++
	}
	return end < uint(len(s.src)) && s.src[end] == '|'
}

// sectionParameters parses `as |a b|`. Nothing is consumed on failure.
func (s *state) sectionParameters() (*syntax.Node, bool) {
	if !s.paramsAhead() {
		return nil, false
	}
	start := s.pos
	children := []*syntax.Node{s.leaf(grammar.SymAs, s.pos+2)}
	s.skipSpace()
	children = append(children, s.leaf(grammar.SymPipe, s.pos+1))
	s.skipSpace()
	for {
		param, ok := s.name(grammar.SymParameter, dotExtra)
		if !ok {
			break
		}
		children = append(children, param)
		s.skipSpace()
	}
	if len(children) == 2 || s.peek() != '|' {
		s.pos = start
		return nil, false
	}
	children = append(children, s.leaf(grammar.SymPipe, s.pos+1))
	s.skipSpace()
	return s.branch(grammar.SymSectionParameters, children...), true
}

// fromTag turns a parsed tag into template content. A stray end tag is
// wrapped in an ERROR node.
func (s *state) fromTag(t tag) *syntax.Node {
	switch t.kind {
	case tagBegin, tagInvertedBegin:
		return s.section(t)
	case tagEnd:
		return s.errorBranch(t.node)
	}
	return t.node
}

// section parses the body of a section up to its end tag. The end tag is
// not matched by name. A section left open at end of input, or at the
// closer of an enclosing container, ends with a MISSING end tag.
func (s *state) section(begin tag) *syntax.Node {
	sym, endSym := grammar.SymMustacheSection, grammar.SymMustacheSectionEnd
	if begin.kind == tagInvertedBegin {
		sym, endSym = grammar.SymMustacheInvertedSection, grammar.SymMustacheInvertedSectionEnd
	}
	children := []*syntax.Node{begin.node}
	for {
		s.skipExtras()
		children = s.flush(children)
		if s.eof() || (isCloser(s.peek()) && len(s.closers) > 0) {
			children = append(children, s.missing(endSym))
			break
		}
		if s.at("{{") {
			if t, ok := s.tag(); ok {
				if t.kind == tagEnd {
					t.node.Symbol = endSym
					children = append(children, t.node)
					break
				}
				children = append(children, s.fromTag(t))
				continue
			}
		}
		children = append(children, s.templateItem())
	}
	return s.branch(sym, children...)
}
