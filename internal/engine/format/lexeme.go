package format

import (
	"strings"

	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

type lexKind int

const (
	lexValue lexKind = iota
	lexOpen
	lexClose
	lexComma
	lexColon
	lexTag
	lexLineComment
	lexBlockComment
)

type tagRole int

const (
	roleInline tagRole = iota
	roleOpen
	roleClose
	roleElse
	roleComment
)

// lexeme is one printable unit: a JSON5 token, a comment, or a whole
// mustache tag.
type lexeme struct {
	kind  lexKind
	sym   grammar.Symbol
	text  string
	start uint
	end   uint

	// breaks counts the newlines between the previous lexeme and this one.
	breaks int
	// glued is set when no whitespace separates it from the previous lexeme.
	glued bool

	role tagRole
	name string
	// parsed tags came from a well-formed node and may be respaced.
	parsed bool

	// match is the index of the closer for an opener, -1 when missing.
	match     int
	multiline bool

	drop        bool
	appendComma bool
}

func isTagSymbol(sym grammar.Symbol) bool {
	switch sym {
	case grammar.SymMustacheComment, grammar.SymMustacheInterpolation, grammar.SymMustacheUnescaped,
		grammar.SymMustachePartial, grammar.SymMustacheSectionBegin, grammar.SymMustacheSectionEnd,
		grammar.SymMustacheInvertedSectionBegin, grammar.SymMustacheInvertedSectionEnd:
		return true
	}
	return false
}

func isContainer(n *syntax.Node) bool {
	return n != nil && (n.Symbol == grammar.SymObject || n.Symbol == grammar.SymArray)
}

// lex flattens the tree into lexemes in source order. MISSING nodes print
// nothing and are skipped.
func lex(tree *syntax.Tree) []lexeme {
	src := tree.Source()
	var out []lexeme
	add := func(lx lexeme, n *syntax.Node) {
		lx.sym = n.Symbol
		lx.start, lx.end = n.StartByte, n.EndByte
		lx.text = n.Text(src)
		lx.match = -1
		if len(out) > 0 {
			prev := out[len(out)-1].end
			gap := src[prev:lx.start]
			lx.breaks = strings.Count(string(gap), "\n")
			lx.glued = len(gap) == 0
		}
		if lx.kind == lexTag {
			lx.role, lx.name = classifyTag(lx.text)
		}
		out = append(out, lx)
	}

	tree.RootNode().Walk(func(n *syntax.Node) bool {
		if n.IsMissing() {
			return false
		}
		if isTagSymbol(n.Symbol) {
			add(lexeme{kind: lexTag, parsed: n.Symbol != grammar.SymMustacheComment}, n)
			return false
		}
		if len(n.Children) > 0 {
			return true
		}
		lx := lexeme{kind: lexValue}
		switch n.Symbol {
		case grammar.SymLBrace, grammar.SymLBracket:
			if isContainer(n.Parent()) {
				lx.kind = lexOpen
			}
		case grammar.SymRBrace, grammar.SymRBracket:
			if isContainer(n.Parent()) {
				lx.kind = lexClose
			}
		case grammar.SymComma:
			lx.kind = lexComma
		case grammar.SymColon:
			lx.kind = lexColon
		case grammar.SymComment:
			lx.kind = lexBlockComment
			if strings.HasPrefix(n.Text(src), "//") {
				lx.kind = lexLineComment
			}
		case grammar.SymbolError:
			if strings.HasPrefix(n.Text(src), "{{") {
				lx.kind = lexTag
			}
		}
		if n.EndByte > n.StartByte {
			add(lx, n)
		}
		return false
	})
	return out
}

// classifyTag derives a tag's role from its text so that tags which failed
// to parse still take part in section balancing.
func classifyTag(text string) (tagRole, string) {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "{{"), "}}"))
	if inner == "" {
		return roleInline, ""
	}
	switch inner[0] {
	case '#', '^':
		return roleOpen, firstWord(inner[1:])
	case '/':
		return roleClose, firstWord(inner[1:])
	case '!':
		return roleComment, ""
	}
	if firstWord(inner) == "else" {
		return roleElse, ""
	}
	return roleInline, ""
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\r\n}"); i >= 0 {
		return s[:i]
	}
	return s
}
