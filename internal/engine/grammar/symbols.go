package grammar

// Symbol identifies a node kind in the mustache_json5 grammar. Terminals come
// first, followed by rules, mirroring the layout of a generated parse table.
type Symbol uint16

// FieldID identifies a named child slot. Zero means "no field".
type FieldID uint16

const (
	SymEnd Symbol = iota
	SymIdentifier
	SymLBrace
	SymRBrace
	SymLBracket
	SymRBracket
	SymComma
	SymColon
	SymOpenTag
	SymCloseTag
	SymBang
	SymHash
	SymCaret
	SymSlash
	SymGreater
	SymAmpersand
	SymDot
	SymAs
	SymPipe
	SymComment
	SymString
	SymNumber
	SymNull
	SymTrue
	SymFalse
	SymText
	SymCommentContent
	SymPartialName
	SymParameter
	SymTagName
	SymIdentifierExpression
	SymDotExpression

	SymSourceFile
	SymDocument
	SymJSON5Document
	SymTemplateDocument
	SymObject
	SymMember
	SymName
	SymArray
	SymMustacheComment
	SymMustacheInterpolation
	SymMustacheUnescaped
	SymMustachePartial
	SymMustacheSection
	SymMustacheSectionBegin
	SymMustacheSectionEnd
	SymMustacheInvertedSection
	SymMustacheInvertedSectionBegin
	SymMustacheInvertedSectionEnd
	SymSectionParameters
	SymPathExpression

	symHiddenJSON5Value
	symHiddenTemplateContent
	symHiddenObjectItem
	symHiddenArrayItem
	symHiddenValue
	symHiddenExpression

	symbolCount
)

// SymbolError is the kind of nodes produced by error recovery.
const SymbolError Symbol = 0xFFFF

const (
	FieldNone FieldID = iota
	FieldName
	FieldValue

	fieldCount
)

type symbolInfo struct {
	name    string
	named   bool
	visible bool
}

var symbolTable = [symbolCount]symbolInfo{
	SymEnd:                  {"end", false, false},
	SymIdentifier:           {"identifier", true, true},
	SymLBrace:               {"{", false, true},
	SymRBrace:               {"}", false, true},
	SymLBracket:             {"[", false, true},
	SymRBracket:             {"]", false, true},
	SymComma:                {",", false, true},
	SymColon:                {":", false, true},
	SymOpenTag:              {"{{", false, true},
	SymCloseTag:             {"}}", false, true},
	SymBang:                 {"!", false, true},
	SymHash:                 {"#", false, true},
	SymCaret:                {"^", false, true},
	SymSlash:                {"/", false, true},
	SymGreater:              {">", false, true},
	SymAmpersand:            {"&", false, true},
	SymDot:                  {".", false, true},
	SymAs:                   {"as", false, true},
	SymPipe:                 {"|", false, true},
	SymComment:              {"comment", true, true},
	SymString:               {"string", true, true},
	SymNumber:               {"number", true, true},
	SymNull:                 {"null", true, true},
	SymTrue:                 {"true", true, true},
	SymFalse:                {"false", true, true},
	SymText:                 {"text", true, true},
	SymCommentContent:       {"comment_content", true, true},
	SymPartialName:          {"partial_name", true, true},
	SymParameter:            {"parameter", true, true},
	SymTagName:              {"tag_name", true, true},
	SymIdentifierExpression: {"identifier_expression", true, true},
	SymDotExpression:        {"dot_expression", true, true},

	SymSourceFile:                   {"source_file", true, true},
	SymDocument:                     {"document", true, true},
	SymJSON5Document:                {"json5_document", true, true},
	SymTemplateDocument:             {"template_document", true, true},
	SymObject:                       {"object", true, true},
	SymMember:                       {"member", true, true},
	SymName:                         {"name", true, true},
	SymArray:                        {"array", true, true},
	SymMustacheComment:              {"mustache_comment", true, true},
	SymMustacheInterpolation:        {"mustache_interpolation", true, true},
	SymMustacheUnescaped:            {"mustache_unescaped", true, true},
	SymMustachePartial:              {"mustache_partial", true, true},
	SymMustacheSection:              {"mustache_section", true, true},
	SymMustacheSectionBegin:         {"mustache_section_begin", true, true},
	SymMustacheSectionEnd:           {"mustache_section_end", true, true},
	SymMustacheInvertedSection:      {"mustache_inverted_section", true, true},
	SymMustacheInvertedSectionBegin: {"mustache_inverted_section_begin", true, true},
	SymMustacheInvertedSectionEnd:   {"mustache_inverted_section_end", true, true},
	SymSectionParameters:            {"section_parameters", true, true},
	SymPathExpression:               {"path_expression", true, true},

	symHiddenJSON5Value:      {"_json5_value", true, false},
	symHiddenTemplateContent: {"_template_content", true, false},
	symHiddenObjectItem:      {"_object_item", true, false},
	symHiddenArrayItem:       {"_array_item", true, false},
	symHiddenValue:           {"_value", true, false},
	symHiddenExpression:      {"_expression", true, false},
}

var fieldTable = [fieldCount]string{
	FieldNone:  "",
	FieldName:  "name",
	FieldValue: "value",
}
