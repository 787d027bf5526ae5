package grammar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustacheJSON5_NonNil(t *testing.T) {
	lang := MustacheJSON5()
	require.NotNil(t, lang)
	assert.Equal(t, "mustache_json5", lang.Name())
	assert.Equal(t, uint32(ABIVersion), lang.ABIVersion())
}

func TestMustacheJSON5_StableIdentity(t *testing.T) {
	first := MustacheJSON5()
	for i := 0; i < 100; i++ {
		assert.Same(t, first, MustacheJSON5())
	}
}

func TestMustacheJSON5_ConcurrentAccess(t *testing.T) {
	want := MustacheJSON5()

	var wg sync.WaitGroup
	results := make([]*Language, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := MustacheJSON5()
			_, _ = lang.SymbolForName("object", true)
			_ = lang.SymbolName(SymMember)
			results[i] = lang
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Same(t, want, got)
	}
}

func TestSymbolTable(t *testing.T) {
	lang := MustacheJSON5()

	tests := []struct {
		name  string
		named bool
		want  Symbol
	}{
		{"object", true, SymObject},
		{"member", true, SymMember},
		{"null", true, SymNull},
		{"mustache_section_begin", true, SymMustacheSectionBegin},
		{"dot_expression", true, SymDotExpression},
		{"{", false, SymLBrace},
		{"{{", false, SymOpenTag},
		{"as", false, SymAs},
		{"ERROR", true, SymbolError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lang.SymbolForName(tt.name, tt.named)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, lang.SymbolName(got))
			assert.Equal(t, tt.named, lang.IsNamed(got))
		})
	}

	_, ok := lang.SymbolForName("_json5_value", true)
	assert.False(t, ok, "hidden rules must not be addressable by name")
	_, ok = lang.SymbolForName("object", false)
	assert.False(t, ok, "named and anonymous namespaces are distinct")

	assert.False(t, lang.IsVisible(symHiddenValue))
	assert.True(t, lang.IsTerminal(SymString))
	assert.False(t, lang.IsTerminal(SymObject))
	assert.Equal(t, "", lang.SymbolName(Symbol(symbolCount+5)))
}

func TestFieldTable(t *testing.T) {
	lang := MustacheJSON5()
	assert.Equal(t, 2, lang.FieldCount())

	id, ok := lang.FieldIDForName("name")
	require.True(t, ok)
	assert.Equal(t, FieldName, id)
	assert.Equal(t, "value", lang.FieldName(FieldValue))
	assert.Equal(t, "", lang.FieldName(FieldNone))

	_, ok = lang.FieldIDForName("body")
	assert.False(t, ok)
}

func TestFileExtensionsAreCopied(t *testing.T) {
	lang := MustacheJSON5()
	exts := lang.FileExtensions()
	require.Equal(t, []string{".mustache_json5", ".mjson5"}, exts)

	exts[0] = ".json"
	assert.Equal(t, ".mustache_json5", lang.FileExtensions()[0])
}

func TestNodeKindsSorted(t *testing.T) {
	kinds := MustacheJSON5().NodeKinds()
	assert.Contains(t, kinds, "source_file")
	assert.NotContains(t, kinds, "_value")
	assert.IsIncreasing(t, kinds)
}
