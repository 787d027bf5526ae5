package treesitter

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/parser"
)

// compiledGrammar loads the shared object named by MJSON5_GRAMMAR_SO.
func compiledGrammar(t *testing.T) *Backend {
	t.Helper()
	path := os.Getenv("MJSON5_GRAMMAR_SO")
	if path == "" {
		t.Skip("MJSON5_GRAMMAR_SO not set")
	}
	compiled, err := LoadDynamic(path)
	require.NoError(t, err)
	b, err := NewBackend(compiled, grammar.MustacheJSON5())
	require.NoError(t, err)
	return b
}

func TestBackendMatchesNativeParser(t *testing.T) {
	b := compiledGrammar(t)
	native, err := parser.New(grammar.MustacheJSON5())
	require.NoError(t, err)

	inputs := []string{
		`{"a": 1, "b": [true, null]}`,
		`{{#items}}{{.}}{{/items}}`,
		`{ {{key}}: {{value}} }`,
	}
	for _, src := range inputs {
		got, err := b.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		want, err := native.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		assert.Equal(t, want.String(), got.String(), src)
	}
}

func TestParserPoolConcurrent(t *testing.T) {
	b := compiledGrammar(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.Parse(context.Background(), []byte(`[1, 2, 3]`))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Pool().Stats())
}

func TestNewBackendRejectsNil(t *testing.T) {
	_, err := NewBackend(nil, grammar.MustacheJSON5())
	assert.Error(t, err)
}
