package syntax

import (
	"testing"

	"mjson5/internal/engine/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMember hand-assembles the tree for `{"a":\n1}`.
func buildMember(lang *grammar.Language) (*Tree, *Node) {
	src := []byte("{\"a\":\n1}")
	str := NewLeaf(lang, grammar.SymString, 1, 4)
	name := NewBranch(lang, grammar.SymName, 1, str).WithField(grammar.FieldName)
	colon := NewLeaf(lang, grammar.SymColon, 4, 5)
	num := NewLeaf(lang, grammar.SymNumber, 6, 7).WithField(grammar.FieldValue)
	member := NewBranch(lang, grammar.SymMember, 1, name, colon, num)
	obj := NewBranch(lang, grammar.SymObject, 0,
		NewLeaf(lang, grammar.SymLBrace, 0, 1),
		member,
		NewLeaf(lang, grammar.SymRBrace, 7, 8),
	)
	doc := NewBranch(lang, grammar.SymJSON5Document, 0, obj)
	root := NewBranch(lang, grammar.SymSourceFile, 0, NewBranch(lang, grammar.SymDocument, 0, doc))
	return NewTree(lang, src, root), member
}

func TestTreeString(t *testing.T) {
	tree, _ := buildMember(grammar.MustacheJSON5())
	assert.Equal(t,
		"(source_file (document (json5_document (object (member name: (name (string)) value: (number))))))",
		tree.String())
	assert.False(t, tree.HasError())
}

func TestNodeAccessors(t *testing.T) {
	tree, member := buildMember(grammar.MustacheJSON5())
	src := tree.Source()

	assert.Equal(t, "member", member.Kind())
	assert.True(t, member.IsNamed())
	assert.Equal(t, uint(3), member.ChildCount())
	assert.Equal(t, uint(2), member.NamedChildCount())
	assert.Equal(t, "number", member.NamedChild(1).Kind())
	assert.Nil(t, member.NamedChild(2))
	assert.Nil(t, member.Child(9))

	value := member.ChildByFieldName("value")
	require.NotNil(t, value)
	assert.Equal(t, "1", value.Text(src))
	assert.Equal(t, "value", value.FieldName())
	assert.Equal(t, Point{Row: 1, Column: 0}, value.Start)
	assert.Equal(t, Point{Row: 0, Column: 1}, member.Start)
	assert.Equal(t, "object", member.Parent().Kind())

	colon := member.Child(1)
	assert.False(t, colon.IsNamed())
	assert.Equal(t, ":", colon.Kind())
}

func TestLeavesInSourceOrder(t *testing.T) {
	tree, _ := buildMember(grammar.MustacheJSON5())
	var kinds []string
	for _, leaf := range tree.Leaves() {
		kinds = append(kinds, leaf.Kind())
	}
	assert.Equal(t, []string{"{", "string", ":", "number", "}"}, kinds)
}

func TestErrorAndMissingPropagation(t *testing.T) {
	lang := grammar.MustacheJSON5()
	src := []byte("[1 @")
	bad := NewLeaf(lang, grammar.SymbolError, 3, 4)
	arr := NewBranch(lang, grammar.SymArray, 0,
		NewLeaf(lang, grammar.SymLBracket, 0, 1),
		NewLeaf(lang, grammar.SymNumber, 1, 2),
		bad,
		NewMissing(lang, grammar.SymRBracket, 4),
	)
	root := NewBranch(lang, grammar.SymSourceFile, 0, arr)
	tree := NewTree(lang, src, root)

	assert.True(t, tree.HasError())
	assert.True(t, arr.HasError())
	assert.True(t, bad.IsError())
	assert.Equal(t, `(source_file (array (number) (ERROR) (MISSING "]")))`, tree.String())

	errs := tree.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "ERROR", errs[0].Kind())
	assert.True(t, errs[1].IsMissing())
}

func TestEmptyBranchUsesFallbackOffset(t *testing.T) {
	lang := grammar.MustacheJSON5()
	n := NewBranch(lang, grammar.SymTemplateDocument, 7)
	assert.Equal(t, uint(7), n.StartByte)
	assert.Equal(t, uint(7), n.EndByte)
}
