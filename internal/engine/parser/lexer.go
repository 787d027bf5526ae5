package parser

// Lexical helpers for the mustache_json5 token set. Each scan function
// takes an offset and returns the end of the longest match, or the offset
// itself when nothing matches.

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isTextByte matches [^{}\[\]",:\s].
func isTextByte(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '"', ',', ':':
		return false
	}
	return !isSpace(c)
}

func hasPrefix(src []byte, pos uint, prefix string) bool {
	if pos+uint(len(prefix)) > uint(len(src)) {
		return false
	}
	return string(src[pos:pos+uint(len(prefix))]) == prefix
}

// scanComment matches `//[^\n]*` and `/* ... */`. An unterminated block
// comment is not a comment.
func scanComment(src []byte, pos uint) uint {
	n := uint(len(src))
	if pos+1 >= n || src[pos] != '/' {
		return pos
	}
	switch src[pos+1] {
	case '/':
		end := pos + 2
		for end < n && src[end] != '\n' {
			end++
		}
		return end
	case '*':
		for i := pos + 2; i+1 < n; i++ {
			if src[i] == '*' && src[i+1] == '/' {
				return i + 2
			}
		}
	}
	return pos
}

var stringEscapes = map[byte]bool{'\\': true, 'b': true, 'f': true, 'n': true, 'r': true, 't': true, 'v': true, '/': true}

// scanString matches a single or double quoted JSON5 string. Inside the
// string a backslash must be followed by the quote or one of \ b f n r t v /.
func scanString(src []byte, pos uint) uint {
	n := uint(len(src))
	if pos >= n || (src[pos] != '"' && src[pos] != '\'') {
		return pos
	}
	quote := src[pos]
	for i := pos + 1; i < n; i++ {
		switch src[i] {
		case quote:
			return i + 1
		case '\\':
			if i+1 >= n {
				return pos
			}
			if next := src[i+1]; next != quote && !stringEscapes[next] {
				return pos
			}
			i++
		}
	}
	return pos
}

// scanNumber matches JSON5 numbers: optional sign, then hex, decimal with
// optional fraction and exponent, Infinity or NaN.
func scanNumber(src []byte, pos uint) uint {
	n := uint(len(src))
	i := pos
	if i < n && (src[i] == '+' || src[i] == '-') {
		i++
	}
	if hasPrefix(src, i, "Infinity") {
		return i + 8
	}
	if hasPrefix(src, i, "NaN") {
		return i + 3
	}
	if i+2 < n && src[i] == '0' && (src[i+1] == 'x' || src[i+1] == 'X') && isHexDigit(src[i+2]) {
		j := i + 2
		for j < n && isHexDigit(src[j]) {
			j++
		}
		return j
	}

	start := i
	intDigits := uint(0)
	if i < n && src[i] == '0' {
		i++
		intDigits = 1
	} else {
		for i < n && isDigit(src[i]) {
			i++
			intDigits++
		}
	}
	fracDigits := uint(0)
	if i < n && src[i] == '.' {
		j := i + 1
		for j < n && isDigit(src[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return pos
	}
	if i < n && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < n && (src[j] == '+' || src[j] == '-') {
			j++
		}
		k := j
		for k < n && isDigit(src[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	if i == start {
		return pos
	}
	return i
}

// scanIdentifier matches [a-zA-Z_$][a-zA-Z0-9_$]*.
func scanIdentifier(src []byte, pos uint) uint {
	n := uint(len(src))
	if pos >= n || !(isAlpha(src[pos]) || src[pos] == '$') {
		return pos
	}
	i := pos + 1
	for i < n && (isAlpha(src[i]) || isDigit(src[i]) || src[i] == '$') {
		i++
	}
	return i
}

// scanName matches [a-zA-Z_] followed by bytes accepted by more. It covers
// identifier_expression, tag_name, parameter and partial_name.
func scanName(src []byte, pos uint, more func(byte) bool) uint {
	n := uint(len(src))
	if pos >= n || !isAlpha(src[pos]) {
		return pos
	}
	i := pos + 1
	for i < n && (isAlpha(src[i]) || isDigit(src[i]) || more(src[i])) {
		i++
	}
	return i
}

func noExtra(byte) bool { return false }

func dotExtra(c byte) bool { return c == '.' }

func partialExtra(c byte) bool { return c == '.' || c == '-' }

func scanText(src []byte, pos uint) uint {
	i := pos
	for i < uint(len(src)) && isTextByte(src[i]) {
		i++
	}
	return i
}

// scanKeyword matches the literal word when it is not followed by a
// character that would extend an identifier.
func scanKeyword(src []byte, pos uint, word string) uint {
	if !hasPrefix(src, pos, word) {
		return pos
	}
	end := pos + uint(len(word))
	if end < uint(len(src)) {
		c := src[end]
		if isAlpha(c) || isDigit(c) || c == '$' {
			return pos
		}
	}
	return end
}

// scanLine returns the offset of the next newline (or EOF) at or after pos.
func scanLine(src []byte, pos uint) uint {
	for pos < uint(len(src)) && src[pos] != '\n' {
		pos++
	}
	return pos
}

// scanTagRecovery finds the end of a mustache tag that failed to parse: just
// past the next "}}" on the same line, or the end of the line.
func scanTagRecovery(src []byte, pos uint) uint {
	n := uint(len(src))
	for i := pos; i < n; i++ {
		if src[i] == '\n' {
			return i
		}
		if src[i] == '}' && i+1 < n && src[i+1] == '}' {
			return i + 2
		}
	}
	return n
}
