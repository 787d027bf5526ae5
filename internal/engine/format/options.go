package format

import (
	"strings"

	"mjson5/internal/core/errors"
)

type TrailingCommas string

const (
	TrailingCommasPreserve TrailingCommas = "preserve"
	TrailingCommasNever    TrailingCommas = "never"
	TrailingCommasAlways   TrailingCommas = "always"
)

type QuoteStyle string

const (
	QuotePreserve QuoteStyle = "preserve"
	QuoteDouble   QuoteStyle = "double"
	QuoteSingle   QuoteStyle = "single"
)

// IndentStyle controls how template-level section bodies are indented.
type IndentStyle string

const (
	IndentBlock    IndentStyle = "block"
	IndentPreserve IndentStyle = "preserve"
	IndentMinimal  IndentStyle = "minimal"
)

type MustacheSpacing struct {
	AfterOpen       bool `toml:"after_open"`
	BeforeClose     bool `toml:"before_close"`
	AroundOperators bool `toml:"around_operators"`
}

func (s MustacheSpacing) any() bool {
	return s.AfterOpen || s.BeforeClose || s.AroundOperators
}

type CommentHandling struct {
	PreserveFormatting bool `toml:"preserve_formatting"`
	NormalizeSpacing   bool `toml:"normalize_spacing"`
}

// Options configures the formatter. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	IndentSize          int             `toml:"indent_size"`
	TabWidth            int             `toml:"tab_width"`
	UseTabs             bool            `toml:"use_tabs"`
	MaxLineLength       int             `toml:"max_line_length"`
	PreserveEmptyLines  bool            `toml:"preserve_empty_lines"`
	TrailingCommas      TrailingCommas  `toml:"trailing_commas"`
	QuoteStyle          QuoteStyle      `toml:"quote_style"`
	MustacheSpacing     MustacheSpacing `toml:"mustache_spacing"`
	MustacheIndentStyle IndentStyle     `toml:"mustache_indent_style"`
	CommentHandling     CommentHandling `toml:"comment_handling"`
}

func DefaultOptions() Options {
	return Options{
		IndentSize:          2,
		TabWidth:            2,
		PreserveEmptyLines:  true,
		TrailingCommas:      TrailingCommasPreserve,
		QuoteStyle:          QuotePreserve,
		MustacheIndentStyle: IndentBlock,
		CommentHandling: CommentHandling{
			PreserveFormatting: true,
		},
	}
}

// Normalize lower-cases enum values and fills empty ones with defaults.
func (o *Options) Normalize() {
	def := DefaultOptions()
	o.TrailingCommas = TrailingCommas(strings.ToLower(strings.TrimSpace(string(o.TrailingCommas))))
	o.QuoteStyle = QuoteStyle(strings.ToLower(strings.TrimSpace(string(o.QuoteStyle))))
	o.MustacheIndentStyle = IndentStyle(strings.ToLower(strings.TrimSpace(string(o.MustacheIndentStyle))))
	if o.TrailingCommas == "" {
		o.TrailingCommas = def.TrailingCommas
	}
	if o.QuoteStyle == "" {
		o.QuoteStyle = def.QuoteStyle
	}
	if o.MustacheIndentStyle == "" {
		o.MustacheIndentStyle = def.MustacheIndentStyle
	}
}

func (o Options) Validate() error {
	if o.IndentSize <= 0 {
		return errors.New(errors.CodeValidationError, "indent_size must be greater than 0")
	}
	if o.TabWidth <= 0 {
		return errors.New(errors.CodeValidationError, "tab_width must be greater than 0")
	}
	if o.MaxLineLength < 0 {
		return errors.New(errors.CodeValidationError, "max_line_length must be >= 0")
	}
	switch o.TrailingCommas {
	case TrailingCommasPreserve, TrailingCommasNever, TrailingCommasAlways:
	default:
		return errors.Newf(errors.CodeValidationError, "unknown trailing_commas %q", o.TrailingCommas)
	}
	switch o.QuoteStyle {
	case QuotePreserve, QuoteDouble, QuoteSingle:
	default:
		return errors.Newf(errors.CodeValidationError, "unknown quote_style %q", o.QuoteStyle)
	}
	switch o.MustacheIndentStyle {
	case IndentBlock, IndentPreserve, IndentMinimal:
	default:
		return errors.Newf(errors.CodeValidationError, "unknown mustache_indent_style %q", o.MustacheIndentStyle)
	}
	return nil
}

// IndentString is one level of indentation.
func (o Options) IndentString() string {
	if o.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentSize)
}

// width is the display width of s, counting tabs as TabWidth columns.
func (o Options) width(s string) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += o.TabWidth
			continue
		}
		n++
	}
	return n
}
