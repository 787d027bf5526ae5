// Package format lays out mustache_json5 documents. JSON5 containers are
// broken across lines or kept inline; mustache tags keep their position
// relative to the JSON5 tokens around them.
package format

import (
	"bytes"
	"context"
	"strings"

	"mjson5/internal/core/errors"
	"mjson5/internal/core/ports"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/parser"
	"mjson5/internal/engine/syntax"
)

type Formatter struct {
	opts   Options
	parser ports.SyntaxParser
}

var _ ports.SourceFormatter = (*Formatter)(nil)

// New validates opts and returns a formatter. A nil parser selects the
// native engine.
func New(opts Options, p ports.SyntaxParser) (*Formatter, error) {
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		native, err := parser.New(grammar.MustacheJSON5())
		if err != nil {
			return nil, err
		}
		p = native
	}
	return &Formatter{opts: opts, parser: p}, nil
}

func (f *Formatter) Options() Options { return f.opts }

// Parser returns the engine the formatter parses with.
func (f *Formatter) Parser() ports.SyntaxParser { return f.parser }

// Format returns src laid out according to the formatter's options.
// Documents whose tree has errors are formatted only when they contain
// mustache delimiters, before and after layout; error nodes are then kept
// verbatim.
func (f *Formatter) Format(ctx context.Context, src []byte) (string, error) {
	tree, err := f.parser.Parse(ctx, src)
	if err != nil {
		return "", err
	}
	if tree.HasError() && !hasDelimiters(string(src)) {
		return "", syntaxError(tree)
	}
	lexes := lex(tree)
	if err := checkSections(lexes); err != nil {
		return "", err
	}
	layout(lexes, f.opts)
	out := f.print(src, lexes)
	// Braces that only looked like delimiters can be split apart by the
	// layout; the result would no longer pass the check above.
	if tree.HasError() && !hasDelimiters(out) {
		return "", syntaxError(tree)
	}
	return out, nil
}

func hasDelimiters(s string) bool {
	return strings.Contains(s, "{{") && strings.Contains(s, "}}")
}

func syntaxError(tree *syntax.Tree) error {
	err := errors.New(errors.CodeSyntax, "syntax error in source")
	if errs := tree.Errors(); len(errs) > 0 {
		first := errs[0]
		err = errors.AddContext(err, errors.CtxLine, first.Start.Row+1)
		err = errors.AddContext(err, errors.CtxOffset, first.StartByte)
	}
	return err
}

func FormatString(src string) (string, error) {
	return FormatStringWithOptions(src, DefaultOptions())
}

func FormatStringWithOptions(src string, opts Options) (string, error) {
	f, err := New(opts, nil)
	if err != nil {
		return "", err
	}
	return f.Format(context.Background(), []byte(src))
}

// IsFormatted reports whether formatting src would leave it unchanged.
func IsFormatted(src string, opts Options) (bool, error) {
	out, err := FormatStringWithOptions(src, opts)
	if err != nil {
		return false, err
	}
	return !Changed(src, out), nil
}

// Changed reports whether out differs from src. A missing final newline is
// not a change.
func Changed(src, out string) bool {
	return out != src && out != src+"\n"
}

type separator int

const (
	sepNone separator = iota
	sepSpace
	sepLine
	sepBlank
)

func (f *Formatter) print(src []byte, lexes []lexeme) string {
	p := newPrinter(f.opts.IndentString())
	var stack []int
	pending := false
	prev := -1

	for k := range lexes {
		lx := &lexes[k]
		if lx.drop {
			continue
		}
		top := -1
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		sep := sepNone
		switch {
		case prev < 0:
		case top < 0:
			sep = templateSep(lexes[prev], *lx, pending)
		case lexes[top].multiline:
			sep = blockSep(lexes, prev, top, k, pending)
		default:
			sep = inlineSep(lexes, prev, top, k)
		}

		if lx.kind == lexClose && top >= 0 && lexes[top].match == k {
			stack = stack[:len(stack)-1]
			if lexes[top].multiline {
				p.dedent()
			}
		}
		sections := top < 0 && lx.kind == lexTag && f.opts.MustacheIndentStyle == IndentBlock
		if sections && (lx.role == roleClose || lx.role == roleElse) {
			p.dedent()
		}

		switch sep {
		case sepSpace:
			p.space()
		case sepLine, sepBlank:
			p.newline(sep == sepBlank && f.opts.PreserveEmptyLines)
			pending = false
			if top < 0 && f.opts.MustacheIndentStyle == IndentPreserve {
				prefix := lineIndent(src, lx.start)
				p.prefix = &prefix
			}
		}

		p.write(f.render(*lx, p))
		if lx.appendComma {
			p.write(",")
		}

		switch lx.kind {
		case lexOpen:
			stack = append(stack, k)
			if lx.multiline {
				p.indent()
				pending = true
			}
		case lexComma:
			if top >= 0 && lexes[top].multiline {
				pending = true
			}
		case lexLineComment:
			pending = true
		}
		if sections && (lx.role == roleOpen || lx.role == roleElse) {
			p.indent()
		}
		prev = k
	}
	return p.String()
}

func isComment(lx lexeme) bool {
	return lx.kind == lexLineComment || lx.kind == lexBlockComment
}

func opensSection(lx lexeme) bool {
	return lx.kind == lexTag && (lx.role == roleOpen || lx.role == roleElse)
}

func closesSection(lx lexeme) bool {
	return lx.kind == lexTag && (lx.role == roleClose || lx.role == roleElse)
}

// templateSep keeps the line structure of content outside containers.
func templateSep(prev, lx lexeme, pending bool) separator {
	if lx.breaks > 0 {
		if lx.breaks > 1 && !opensSection(prev) && !closesSection(lx) {
			return sepBlank
		}
		return sepLine
	}
	if pending {
		return sepLine
	}
	if lx.glued {
		return sepNone
	}
	return sepSpace
}

// blockSep places one item per line inside a multi-line container. Tags
// glued to the previous token stay glued, deferring any pending break,
// except after a colon.
func blockSep(lexes []lexeme, prev, top, k int, pending bool) separator {
	lx, before := lexes[k], lexes[prev]
	if lx.kind == lexClose && lexes[top].match == k {
		return sepLine
	}
	if isComment(lx) && lx.breaks == 0 {
		return sepSpace
	}
	if before.kind == lexColon && !isComment(lx) {
		return sepSpace
	}
	if lx.kind == lexTag && lx.glued {
		return sepNone
	}
	if pending || (lx.breaks > 0 && (lx.kind == lexTag || before.kind == lexTag || isComment(lx) || isComment(before))) {
		if lx.breaks > 1 && prev != top && !opensSection(before) && !closesSection(lx) {
			return sepBlank
		}
		return sepLine
	}
	switch {
	case lx.kind == lexComma, lx.kind == lexColon:
		return sepNone
	case before.kind == lexComma, before.kind == lexColon:
		return sepSpace
	case lx.glued:
		return sepNone
	}
	return sepSpace
}

func inlineSep(lexes []lexeme, prev, top, k int) separator {
	lx, before := lexes[k], lexes[prev]
	switch {
	case lx.kind == lexClose && lexes[top].match == k, prev == top:
		return sepNone
	case lx.kind == lexComma, lx.kind == lexColon:
		return sepNone
	case before.kind == lexComma, before.kind == lexColon:
		return sepSpace
	case lx.glued:
		return sepNone
	}
	return sepSpace
}

// lineIndent returns the whitespace that starts the source line holding
// offset, or "" when other text precedes offset on that line.
func lineIndent(src []byte, offset uint) string {
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	ws := src[start:offset]
	if len(bytes.TrimLeft(ws, " \t")) > 0 {
		return ""
	}
	return string(ws)
}

func (f *Formatter) render(lx lexeme, p *printer) string {
	switch lx.kind {
	case lexValue:
		if lx.sym == grammar.SymString {
			return convertQuotes(lx.text, f.opts.QuoteStyle)
		}
	case lexTag:
		if lx.parsed && f.opts.MustacheSpacing.any() {
			return respaceTag(lx.text, f.opts.MustacheSpacing)
		}
	case lexLineComment, lexBlockComment:
		text := lx.text
		if f.opts.CommentHandling.NormalizeSpacing {
			text = normalizeComment(text)
		}
		if lx.kind == lexBlockComment && !f.opts.CommentHandling.PreserveFormatting {
			text = reindentComment(text, p.indentString())
		}
		return text
	}
	return lx.text
}

// convertQuotes switches a string literal to the requested quote when the
// body needs no re-escaping.
func convertQuotes(s string, style QuoteStyle) string {
	var want byte
	switch style {
	case QuoteDouble:
		want = '"'
	case QuoteSingle:
		want = '\''
	default:
		return s
	}
	if len(s) < 2 || s[0] == want {
		return s
	}
	have := s[0]
	body := s[1 : len(s)-1]
	if strings.IndexByte(body, want) >= 0 || strings.Contains(body, `\`+string(have)) {
		return s
	}
	return string(want) + body + string(want)
}

// respaceTag rebuilds a tag with the configured delimiter spacing.
func respaceTag(text string, sp MustacheSpacing) string {
	open, close := "{{", "}}"
	inner := strings.TrimSuffix(strings.TrimPrefix(text, open), close)
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		open, close = "{{{", "}}}"
		inner = inner[1 : len(inner)-1]
	}
	inner = strings.TrimSpace(inner)

	op := ""
	if open == "{{" && inner != "" && strings.IndexByte("#^/>&", inner[0]) >= 0 {
		op = inner[:1]
		inner = strings.TrimSpace(inner[1:])
	}

	var b strings.Builder
	b.WriteString(open)
	if sp.AfterOpen {
		b.WriteByte(' ')
	}
	if op != "" {
		if sp.AroundOperators && !sp.AfterOpen {
			b.WriteByte(' ')
		}
		b.WriteString(op)
		if sp.AroundOperators {
			b.WriteByte(' ')
		}
	}
	b.WriteString(inner)
	if sp.BeforeClose {
		b.WriteByte(' ')
	}
	b.WriteString(close)
	return b.String()
}

func normalizeComment(text string) string {
	for _, open := range []string{"//", "/*"} {
		if !strings.HasPrefix(text, open) || len(text) <= 2 {
			continue
		}
		switch text[2] {
		case ' ', '\t', '\n', '/', '*':
			return text
		}
		return open + " " + text[2:]
	}
	return text
}

// reindentComment aligns the continuation lines of a block comment one
// column past the current indentation.
func reindentComment(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + " " + strings.TrimLeft(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
