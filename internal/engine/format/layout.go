package format

import (
	"strings"

	"mjson5/internal/core/errors"
)

const maxInlineArrayItems = 5

// layout matches brackets and decides, innermost first, which containers
// break across lines. It then applies the trailing comma policy.
func layout(lexes []lexeme, opts Options) {
	var stack []int
	for k := range lexes {
		switch lexes[k].kind {
		case lexOpen:
			stack = append(stack, k)
		case lexClose:
			if len(stack) == 0 {
				lexes[k].kind = lexValue
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			lexes[open].match = k
			lexes[open].multiline = breaksContainer(lexes, open, k, opts)
		}
	}
	for _, open := range stack {
		lexes[open].multiline = breaksContainer(lexes, open, len(lexes), opts)
	}

	if opts.TrailingCommas == TrailingCommasPreserve {
		return
	}
	for k := range lexes {
		if lexes[k].kind != lexOpen || lexes[k].match < 0 {
			continue
		}
		last := lastSignificant(lexes, k, lexes[k].match)
		switch {
		case last < 0:
		case opts.TrailingCommas == TrailingCommasNever && lexes[last].kind == lexComma:
			lexes[last].drop = true
		case opts.TrailingCommas == TrailingCommasAlways && lexes[k].multiline:
			switch lexes[last].kind {
			case lexValue, lexClose:
				lexes[last].appendComma = true
			}
		}
	}
}

// lastSignificant returns the last non-comment lexeme inside (open, close),
// or -1 for an empty container.
func lastSignificant(lexes []lexeme, open, close int) int {
	for k := close - 1; k > open; k-- {
		switch lexes[k].kind {
		case lexLineComment, lexBlockComment:
			continue
		}
		return k
	}
	return -1
}

func breaksContainer(lexes []lexeme, open, close int, opts Options) bool {
	items, current := 0, false
	depth := 0
	empty := true
	for k := open + 1; k < close; k++ {
		lx := lexes[k]
		empty = false
		if lx.breaks > 0 {
			return true
		}
		switch lx.kind {
		case lexLineComment:
			return true
		case lexBlockComment:
			if strings.Contains(lx.text, "\n") {
				return true
			}
			continue
		case lexOpen:
			if depth == 0 && lx.multiline {
				return true
			}
			depth++
		case lexClose:
			depth--
		case lexComma:
			if depth == 0 {
				if current {
					items++
				}
				current = false
				continue
			}
		}
		if depth >= 0 {
			current = true
		}
	}
	if close < len(lexes) && lexes[close].breaks > 0 && !empty {
		return true
	}
	if current {
		items++
	}
	if lexes[open].text == "{" && items > 1 {
		return true
	}
	if lexes[open].text == "[" && items > maxInlineArrayItems {
		return true
	}
	if opts.MaxLineLength > 0 && close < len(lexes) {
		return opts.width(inline(lexes, open, close)) > opts.MaxLineLength
	}
	return false
}

// inline renders lexes[open:close+1] on one line, for width checks.
func inline(lexes []lexeme, open, close int) string {
	var b strings.Builder
	for k := open; k <= close; k++ {
		lx := lexes[k]
		if k > open {
			prev := lexes[k-1]
			switch {
			case lx.kind == lexClose && k == close, prev.kind == lexOpen, lx.kind == lexComma, lx.kind == lexColon:
			case prev.kind == lexComma, prev.kind == lexColon, !lx.glued:
				b.WriteByte(' ')
			}
		}
		b.WriteString(lx.text)
	}
	return b.String()
}

// checkSections verifies that section tags nest and match by name.
func checkSections(lexes []lexeme) error {
	type open struct {
		name string
		at   uint
	}
	var stack []open
	for _, lx := range lexes {
		if lx.kind != lexTag {
			continue
		}
		switch lx.role {
		case roleOpen:
			stack = append(stack, open{name: lx.name, at: lx.start})
		case roleClose:
			if len(stack) == 0 {
				err := errors.Newf(errors.CodeSyntax, "unexpected section end %q", lx.text)
				return errors.AddContext(err, errors.CtxOffset, lx.start)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.name != lx.name {
				err := errors.Newf(errors.CodeSyntax, "section %q closed by %q", top.name, lx.text)
				return errors.AddContext(err, errors.CtxOffset, lx.start)
			}
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		err := errors.Newf(errors.CodeSyntax, "unclosed section %q", top.name)
		return errors.AddContext(err, errors.CtxTag, top.name)
	}
	return nil
}
