// Package syntax is the concrete syntax tree produced by every
// mustache_json5 parsing backend.
package syntax

import (
	"mjson5/internal/engine/grammar"
)

// Point is a 0-based row and byte column.
type Point struct {
	Row    uint
	Column uint
}

type Node struct {
	Symbol    grammar.Symbol
	Field     grammar.FieldID
	StartByte uint
	EndByte   uint
	Start     Point
	End       Point
	Children  []*Node

	lang     *grammar.Language
	parent   *Node
	missing  bool
	hasError bool
}

// NewLeaf creates a terminal node spanning [start, end).
func NewLeaf(lang *grammar.Language, sym grammar.Symbol, start, end uint) *Node {
	return &Node{Symbol: sym, StartByte: start, EndByte: end, lang: lang}
}

// NewMissing creates a zero-width node for a token the parser expected but
// did not find.
func NewMissing(lang *grammar.Language, sym grammar.Symbol, at uint) *Node {
	return &Node{Symbol: sym, StartByte: at, EndByte: at, lang: lang, missing: true}
}

// NewBranch creates a rule node whose range covers its children. A branch
// without children is placed at the given fallback offset.
func NewBranch(lang *grammar.Language, sym grammar.Symbol, at uint, children ...*Node) *Node {
	n := &Node{Symbol: sym, StartByte: at, EndByte: at, lang: lang, Children: children}
	if len(children) > 0 {
		n.StartByte = children[0].StartByte
		n.EndByte = children[len(children)-1].EndByte
	}
	return n
}

// WithField sets the field the node occupies in its parent.
func (n *Node) WithField(f grammar.FieldID) *Node {
	n.Field = f
	return n
}

func (n *Node) Kind() string {
	if n.lang == nil {
		return ""
	}
	return n.lang.SymbolName(n.Symbol)
}

func (n *Node) IsNamed() bool {
	return n.lang != nil && n.lang.IsNamed(n.Symbol)
}

func (n *Node) IsError() bool { return n.Symbol == grammar.SymbolError }

func (n *Node) IsMissing() bool { return n.missing }

// HasError reports whether the node or any descendant is an error or a
// missing node. Valid once the node is attached to a Tree.
func (n *Node) HasError() bool { return n.hasError }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) FieldName() string {
	if n.lang == nil {
		return ""
	}
	return n.lang.FieldName(n.Field)
}

func (n *Node) ChildCount() uint { return uint(len(n.Children)) }

func (n *Node) Child(i uint) *Node {
	if i >= uint(len(n.Children)) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) NamedChildCount() uint {
	var count uint
	for _, c := range n.Children {
		if c.IsNamed() {
			count++
		}
	}
	return count
}

func (n *Node) NamedChild(i uint) *Node {
	for _, c := range n.Children {
		if !c.IsNamed() {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

func (n *Node) ChildByFieldName(name string) *Node {
	for _, c := range n.Children {
		if c.Field != grammar.FieldNone && c.FieldName() == name {
			return c
		}
	}
	return nil
}

// Text returns the source bytes covered by the node.
func (n *Node) Text(src []byte) string {
	if n.EndByte > uint(len(src)) || n.StartByte > n.EndByte {
		return ""
	}
	return string(src[n.StartByte:n.EndByte])
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
