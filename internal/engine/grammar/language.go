// Package grammar holds the static language definition of mustache_json5:
// the symbol and field tables shared by every parsing backend.
package grammar

import "sort"

const (
	// LanguageName is the grammar name; compiled grammars export it as
	// the tree_sitter_<name> symbol.
	LanguageName = "mustache_json5"

	// ABIVersion matches the tree-sitter language ABI the grammar is
	// generated for.
	ABIVersion = 14
)

// Language is an opaque, immutable descriptor of the mustache_json5 grammar.
// A single instance exists per process; it is built during package
// initialisation and never modified afterwards.
type Language struct {
	name       string
	abiVersion uint32
	symbols    []symbolInfo
	fields     []string
	extensions []string

	anonymous map[string]Symbol
	named     map[string]Symbol
	fieldIDs  map[string]FieldID
}

var mustacheJSON5 = newLanguage()

func newLanguage() *Language {
	l := &Language{
		name:       LanguageName,
		abiVersion: ABIVersion,
		symbols:    symbolTable[:],
		fields:     fieldTable[:],
		extensions: []string{".mustache_json5", ".mjson5"},
		anonymous:  make(map[string]Symbol),
		named:      make(map[string]Symbol),
		fieldIDs:   make(map[string]FieldID),
	}
	for i, info := range l.symbols {
		if !info.visible {
			continue
		}
		if info.named {
			l.named[info.name] = Symbol(i)
		} else {
			l.anonymous[info.name] = Symbol(i)
		}
	}
	for i, name := range l.fields {
		if name != "" {
			l.fieldIDs[name] = FieldID(i)
		}
	}
	return l
}

// MustacheJSON5 returns the language definition. It takes no arguments,
// allocates nothing and may be called from any goroutine; every call returns
// the same pointer.
func MustacheJSON5() *Language {
	return mustacheJSON5
}

func (l *Language) Name() string { return l.name }

func (l *Language) ABIVersion() uint32 { return l.abiVersion }

// SymbolCount includes hidden rules but not the ERROR symbol.
func (l *Language) SymbolCount() int { return len(l.symbols) }

func (l *Language) SymbolName(s Symbol) string {
	if s == SymbolError {
		return "ERROR"
	}
	if int(s) >= len(l.symbols) {
		return ""
	}
	return l.symbols[s].name
}

// SymbolForName looks up a visible symbol. Named and anonymous symbols live
// in separate namespaces, e.g. the rule "null" and the token "{".
func (l *Language) SymbolForName(name string, named bool) (Symbol, bool) {
	if named && name == "ERROR" {
		return SymbolError, true
	}
	var (
		s  Symbol
		ok bool
	)
	if named {
		s, ok = l.named[name]
	} else {
		s, ok = l.anonymous[name]
	}
	return s, ok
}

func (l *Language) IsNamed(s Symbol) bool {
	if s == SymbolError {
		return true
	}
	return int(s) < len(l.symbols) && l.symbols[s].named
}

func (l *Language) IsVisible(s Symbol) bool {
	if s == SymbolError {
		return true
	}
	return int(s) < len(l.symbols) && l.symbols[s].visible
}

// IsTerminal reports whether s is produced directly by the lexer.
func (l *Language) IsTerminal(s Symbol) bool {
	return s < SymSourceFile
}

// FieldCount excludes the zero "no field" entry.
func (l *Language) FieldCount() int { return len(l.fields) - 1 }

func (l *Language) FieldName(id FieldID) string {
	if int(id) >= len(l.fields) {
		return ""
	}
	return l.fields[id]
}

func (l *Language) FieldIDForName(name string) (FieldID, bool) {
	id, ok := l.fieldIDs[name]
	return id, ok
}

// FileExtensions returns a copy of the extensions mapped to this language.
func (l *Language) FileExtensions() []string {
	out := make([]string, len(l.extensions))
	copy(out, l.extensions)
	return out
}

// NodeKinds lists the visible named kinds in sorted order.
func (l *Language) NodeKinds() []string {
	kinds := make([]string, 0, len(l.named))
	for name := range l.named {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}
