package parser

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjson5/internal/core/errors"
	"mjson5/internal/engine/grammar"
	"mjson5/internal/engine/syntax"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(grammar.MustacheJSON5())
	require.NoError(t, err)
	return p
}

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := newTestParser(t).Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return tree
}

func TestNewRejectsNilLanguage(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeGrammar))
}

func TestParseValidDocuments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "object",
			src:  `{"a": 1}`,
			want: `(source_file (document (json5_document (object (member name: (name (string)) value: (number))))))`,
		},
		{
			name: "array of scalars",
			src:  `[1, "two", true, null, false]`,
			want: `(source_file (document (json5_document (array (number) (string) (true) (null) (false)))))`,
		},
		{
			name: "json5 extensions",
			src:  `{unquoted: 'single', list: [1,],}`,
			want: `(source_file (document (json5_document (object (member name: (name (identifier)) value: (string)) (member name: (name (identifier)) value: (array (number)))))))`,
		},
		{
			name: "numbers",
			src:  `[0x1F, .5, 5., -Infinity, NaN, 1e10, +3]`,
			want: `(source_file (document (json5_document (array (number) (number) (number) (number) (number) (number) (number)))))`,
		},
		{
			name: "keyword used as member name",
			src:  `{null: 1}`,
			want: `(source_file (document (json5_document (object (member name: (name (identifier)) value: (number))))))`,
		},
		{
			name: "comments are extras",
			src:  "// lead\n{\"a\": 1 /* c */}",
			want: `(source_file (comment) (document (json5_document (object (member name: (name (string)) value: (number)) (comment)))))`,
		},
		{
			name: "interpolation",
			src:  `{{name}}`,
			want: `(source_file (document (template_document (mustache_interpolation (identifier_expression)))))`,
		},
		{
			name: "path expression",
			src:  `{{ user.name }}`,
			want: `(source_file (document (template_document (mustache_interpolation (path_expression (identifier_expression) (identifier_expression))))))`,
		},
		{
			name: "section with dot",
			src:  `{{#items}}{{.}}{{/items}}`,
			want: `(source_file (document (template_document (mustache_section (mustache_section_begin (tag_name)) (mustache_interpolation (dot_expression)) (mustache_section_end (tag_name))))))`,
		},
		{
			name: "inverted section",
			src:  `{{^empty}}none{{/empty}}`,
			want: `(source_file (document (template_document (mustache_inverted_section (mustache_inverted_section_begin (tag_name)) (text) (mustache_inverted_section_end (tag_name))))))`,
		},
		{
			name: "section parameters",
			src:  `{{#each items as |item index|}}{{/each}}`,
			want: `(source_file (document (template_document (mustache_section (mustache_section_begin (tag_name) (identifier_expression) (section_parameters (parameter) (parameter))) (mustache_section_end (tag_name))))))`,
		},
		{
			name: "comment partial and unescaped",
			src:  `{{! note }} {{> header}} {{{raw}}} {{& raw}}`,
			want: `(source_file (document (template_document (mustache_comment (comment_content)) (mustache_partial (partial_name)) (mustache_unescaped (identifier_expression)) (mustache_unescaped (identifier_expression)))))`,
		},
		{
			name: "mustache member name and value",
			src:  `{ {{key}}: {{value}} }`,
			want: `(source_file (document (json5_document (object (member name: (name (mustache_interpolation (identifier_expression))) value: (mustache_interpolation (identifier_expression)))))))`,
		},
		{
			name: "section inside array",
			src:  `[{{#rows}}{"id": 1}{{/rows}}]`,
			want: `(source_file (document (json5_document (array (mustache_section (mustache_section_begin (tag_name)) (object (member name: (name (string)) value: (number))) (mustache_section_end (tag_name)))))))`,
		},
		{
			name: "text",
			src:  `hello world`,
			want: `(source_file (document (template_document (text) (text))))`,
		},
		{
			name: "empty input",
			src:  ``,
			want: `(source_file)`,
		},
		{
			name: "comment only",
			src:  `// nothing here`,
			want: `(source_file (comment))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			assert.Equal(t, tt.want, tree.String())
			assert.False(t, tree.HasError(), "unexpected error nodes in %s", tree.String())
		})
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unclosed array",
			src:  `[1, 2`,
			want: `(source_file (document (json5_document (array (number) (number) (MISSING "]")))))`,
		},
		{
			name: "missing comma",
			src:  `[1 2]`,
			want: `(source_file (document (json5_document (array (number) (MISSING ",") (number)))))`,
		},
		{
			name: "double comma",
			src:  `[1,,2]`,
			want: `(source_file (document (json5_document (array (number) (ERROR) (number)))))`,
		},
		{
			name: "closer of outer container",
			src:  `{"a": [1}`,
			want: `(source_file (document (json5_document (object (member name: (name (string)) value: (array (number) (MISSING "]")))))))`,
		},
		{
			name: "unclosed section",
			src:  `{{#a}}x`,
			want: `(source_file (document (template_document (mustache_section (mustache_section_begin (tag_name)) (text) (MISSING mustache_section_end)))))`,
		},
		{
			name: "malformed tag",
			src:  `{{#}} 1`,
			want: `(source_file (document (template_document (ERROR) (number))))`,
		},
		{
			name: "stray closer",
			src:  `1 }`,
			want: `(source_file (document (template_document (number) (ERROR))))`,
		},
		{
			name: "stray end tag",
			src:  `{{/a}}`,
			want: `(source_file (document (template_document (ERROR (mustache_section_end (tag_name))))))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			assert.Equal(t, tt.want, tree.String())
			assert.True(t, tree.HasError())
			assert.NotEmpty(t, tree.Errors())
		})
	}
}

func TestLeavesCoverSource(t *testing.T) {
	inputs := []string{
		`{"a": 1, "b": [true, null]}`,
		"{\n  // c\n  {{#if x}}\"k\": {{v}},{{/if}}\n  \"z\": 'q'\n}",
		`{{#each items as |item|}}{{item.name}}{{/each}}`,
		`[1 2 "unterminated`,
		`{{ broken }} }} ]] {{{raw}}`,
		`{"a" 1, : , {{> p}} }`,
	}
	for _, src := range inputs {
		tree := parse(t, src)
		covered := make([]bool, len(src))
		var prevEnd uint
		for _, leaf := range tree.Leaves() {
			require.GreaterOrEqual(t, leaf.StartByte, prevEnd, "overlapping leaves in %q", src)
			for i := leaf.StartByte; i < leaf.EndByte; i++ {
				covered[i] = true
			}
			prevEnd = leaf.EndByte
		}
		for i, ok := range covered {
			if ok {
				continue
			}
			switch src[i] {
			case ' ', '\n', '\t':
			default:
				t.Errorf("byte %d (%q) of %q not covered by a leaf", i, src[i], src)
			}
		}
	}
}

func TestParseHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestParser(t).Parse(ctx, []byte(`{"a": 1}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseConcurrent(t *testing.T) {
	p := newTestParser(t)
	src := []byte(`{"list": [{{#rows}}{{.}},{{/rows}}]}`)
	want := parse(t, string(src)).String()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := p.Parse(context.Background(), src)
			if assert.NoError(t, err) {
				assert.Equal(t, want, tree.String())
			}
		}()
	}
	wg.Wait()
}

func TestPointsTrackLines(t *testing.T) {
	tree := parse(t, "{\n  \"a\": 1\n}")
	obj := tree.RootNode().Child(0).Child(0).Child(0)
	require.Equal(t, "object", obj.Kind())
	member := obj.NamedChild(0)
	require.NotNil(t, member)
	assert.Equal(t, syntax.Point{Row: 1, Column: 2}, member.Start)
	assert.Equal(t, "1", member.ChildByFieldName("value").Text(tree.Source()))
}
