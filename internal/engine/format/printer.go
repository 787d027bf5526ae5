package format

import (
	"bytes"
	"strings"
)

// printer writes lines with depth based indentation.
type printer struct {
	output      *bytes.Buffer
	unit        string
	depth       int
	atLineStart bool
	// prefix replaces the depth indentation of the next line when set.
	prefix *string
}

func newPrinter(unit string) *printer {
	return &printer{
		output:      &bytes.Buffer{},
		unit:        unit,
		atLineStart: true,
	}
}

// String returns the output with exactly one trailing newline.
func (p *printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	if p.prefix != nil {
		p.output.WriteString(*p.prefix)
		p.prefix = nil
	} else {
		for i := 0; i < p.depth; i++ {
			p.output.WriteString(p.unit)
		}
	}
	p.atLineStart = false
}

// newline ends the current line, adding one blank line when blank is set.
func (p *printer) newline(blank bool) {
	if p.output.Len() == 0 {
		return
	}
	if !p.atLineStart {
		p.writeln()
	}
	if blank {
		p.writeln()
	}
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *printer) space() {
	if !p.atLineStart {
		p.output.WriteByte(' ')
	}
}

// indentString is the indentation a new line at the current depth gets.
func (p *printer) indentString() string {
	return strings.Repeat(p.unit, p.depth)
}
