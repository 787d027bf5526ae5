package syntax

import (
	"sort"
	"strings"

	"mjson5/internal/engine/grammar"
)

type Tree struct {
	root   *Node
	source []byte
	lang   *grammar.Language
}

// NewTree attaches root to src, filling in parents, points and error flags.
func NewTree(lang *grammar.Language, src []byte, root *Node) *Tree {
	t := &Tree{root: root, source: src, lang: lang}
	lines := lineStarts(src)
	var attach func(n, parent *Node) bool
	attach = func(n, parent *Node) bool {
		n.parent = parent
		if n.lang == nil {
			n.lang = lang
		}
		n.Start = pointAt(lines, n.StartByte)
		n.End = pointAt(lines, n.EndByte)
		hasError := n.IsError() || n.missing
		for _, c := range n.Children {
			if attach(c, n) {
				hasError = true
			}
		}
		n.hasError = hasError
		return hasError
	}
	if root != nil {
		attach(root, nil)
	}
	return t
}

func (t *Tree) RootNode() *Node { return t.root }

func (t *Tree) Source() []byte { return t.source }

func (t *Tree) Language() *grammar.Language { return t.lang }

func (t *Tree) HasError() bool { return t.root != nil && t.root.hasError }

// String renders the tree as an S-expression in tree-sitter's notation.
func (t *Tree) String() string {
	if t.root == nil {
		return ""
	}
	var b strings.Builder
	writeSexp(&b, t.root)
	return b.String()
}

func writeSexp(b *strings.Builder, n *Node) {
	if n.missing {
		b.WriteString("(MISSING ")
		if n.IsNamed() {
			b.WriteString(n.Kind())
		} else {
			b.WriteString(`"` + n.Kind() + `"`)
		}
		b.WriteString(")")
		return
	}
	b.WriteString("(")
	b.WriteString(n.Kind())
	for _, c := range n.Children {
		if !c.IsNamed() && !c.missing {
			continue
		}
		b.WriteString(" ")
		if c.Field != grammar.FieldNone {
			b.WriteString(c.FieldName())
			b.WriteString(": ")
		}
		writeSexp(b, c)
	}
	b.WriteString(")")
}

// Leaves returns the terminals of the tree in source order. Error nodes
// without children count as leaves.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.root.Walk(func(n *Node) bool {
		if len(n.Children) == 0 {
			leaves = append(leaves, n)
			return false
		}
		return true
	})
	return leaves
}

// Errors returns every error or missing node, outermost first.
func (t *Tree) Errors() []*Node {
	var out []*Node
	t.root.Walk(func(n *Node) bool {
		if n.IsError() || n.missing {
			out = append(out, n)
			return false
		}
		return n.hasError
	})
	return out
}

func lineStarts(src []byte) []uint {
	starts := []uint{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, uint(i+1))
		}
	}
	return starts
}

func pointAt(starts []uint, offset uint) Point {
	row := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if row < 0 {
		row = 0
	}
	return Point{Row: uint(row), Column: offset - starts[row]}
}
