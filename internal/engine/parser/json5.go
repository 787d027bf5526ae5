package parser

import (
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

func (s *state) object() *syntax.Node {
	return s.container(grammar.SymObject, grammar.SymLBrace, grammar.SymRBrace, '}', s.objectItem)
}

func (s *state) array() *syntax.Node {
	return s.container(grammar.SymArray, grammar.SymLBracket, grammar.SymRBracket, ']', s.arrayItem)
}

// container parses a bracketed, comma separated item list. A closer that
// belongs to an enclosing container, or the end of input, closes it with a
// MISSING token.
func (s *state) container(sym, open, close grammar.Symbol, closer byte, item func() *syntax.Node) *syntax.Node {
	children := []*syntax.Node{s.leaf(open, s.pos+1)}
	s.closers = append(s.closers, closer)
	defer func() { s.closers = s.closers[:len(s.closers)-1] }()

	wantItem := true
	for {
		s.skipExtras()
		children = s.flush(children)
		if s.eof() {
			children = append(children, s.missing(close))
			break
		}
		c := s.peek()
		if c == closer {
			children = append(children, s.leaf(close, s.pos+1))
			break
		}
		if isCloser(c) {
			if s.expects(c) {
				children = append(children, s.missing(close))
				break
			}
			stray := grammar.SymRBrace
			if c == ']' {
				stray = grammar.SymRBracket
			}
			children = append(children, s.errorBranch(s.leaf(stray, s.pos+1)))
			continue
		}
		if c == ',' {
			comma := s.leaf(grammar.SymComma, s.pos+1)
			if wantItem {
				children = append(children, s.errorBranch(comma))
				continue
			}
			children = append(children, comma)
			wantItem = true
			continue
		}

		if !wantItem {
			children = append(children, s.missing(grammar.SymComma))
		}
		children = append(children, item())
		wantItem = false
	}
	return s.branch(sym, children...)
}

func (s *state) objectItem() *syntax.Node {
	if s.at("{{") {
		if t, ok := s.tag(); ok {
			switch t.kind {
			case tagBegin, tagInvertedBegin:
				return s.section(t)
			case tagComment:
				return t.node
			case tagInterpolation, tagUnescaped:
				return s.member(t.node)
			default:
				return s.errorBranch(t.node)
			}
		}
	}

	switch c := s.peek(); c {
	case '{':
		return s.errorBranch(s.object())
	case '[':
		return s.errorBranch(s.array())
	case ':':
		return s.errorBranch(s.leaf(grammar.SymColon, s.pos+1))
	case '"', '\'':
		textEnd := scanText(s.src, s.pos)
		if end := scanString(s.src, s.pos); end > s.pos && end >= textEnd {
			return s.member(s.leaf(grammar.SymString, end))
		}
	}

	textEnd := scanText(s.src, s.pos)
	if end := scanIdentifier(s.src, s.pos); end > s.pos && end >= textEnd && s.colonAt(end) {
		return s.member(s.leaf(grammar.SymIdentifier, end))
	}
	if textEnd > s.pos {
		return s.leaf(grammar.SymText, textEnd)
	}
	return s.errorLeaf(scanLine(s.src, s.pos))
}

// colonAt reports whether the next non-space byte at or after i is a colon.
func (s *state) colonAt(i uint) bool {
	for i < uint(len(s.src)) && isSpace(s.src[i]) {
		i++
	}
	return i < uint(len(s.src)) && s.src[i] == ':'
}

// member completes `name: value` once the name token has been consumed.
// A name that is not followed by a colon is returned inside an ERROR node.
func (s *state) member(key *syntax.Node) *syntax.Node {
	s.skipExtras()
	if s.peek() != ':' {
		return s.errorBranch(s.flush([]*syntax.Node{key})...)
	}
	name := syntax.NewBranch(s.lang, grammar.SymName, key.StartByte, key).WithField(grammar.FieldName)
	children := s.flush([]*syntax.Node{name})
	children = append(children, s.leaf(grammar.SymColon, s.pos+1))
	s.skipExtras()
	children = s.flush(children)
	children = append(children, s.memberValue())
	return s.branch(grammar.SymMember, children...)
}

// memberValue parses the value of a member. Without a usable value the
// member gets an empty ERROR node and the input is left for the item loop.
func (s *state) memberValue() *syntax.Node {
	if s.at("{{") {
		start := s.pos
		if t, ok := s.tag(); ok {
			switch t.kind {
			case tagInterpolation, tagUnescaped, tagPartial:
				return t.node.WithField(grammar.FieldValue)
			}
			s.pos = start
			return s.errorBranch()
		}
	}
	switch s.peek() {
	case '{':
		return s.object().WithField(grammar.FieldValue)
	case '[':
		return s.array().WithField(grammar.FieldValue)
	}
	if n := s.scalar(); n != nil {
		return n.WithField(grammar.FieldValue)
	}
	if end := scanText(s.src, s.pos); end > s.pos {
		return s.errorBranch(s.leaf(grammar.SymText, end))
	}
	return s.errorBranch()
}

func (s *state) arrayItem() *syntax.Node {
	if s.at("{{") {
		if t, ok := s.tag(); ok {
			if t.kind == tagEnd {
				return s.errorBranch(t.node)
			}
			return s.fromTag(t)
		}
	}
	switch s.peek() {
	case '{':
		return s.object()
	case '[':
		return s.array()
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
