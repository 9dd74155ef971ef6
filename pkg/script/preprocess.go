package script

import "strings"

// preprocessSource rewrites lisp source before zygomys sees it. Outside
// string literals a run of ; starts a // comment, :name becomes the string
// "name", and a hyphen joining two identifier parts becomes an underscore,
// so out-append reaches the interpreter as out_append. A hyphen anywhere
// else is the minus operator and is left alone.
func preprocessSource(source string) string {
	var sb strings.Builder
	sb.Grow(len(source) + len(source)/4)
	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"' || c == '`':
			end := literalEnd(source, i)
			sb.WriteString(source[i:end])
			i = end

		case c == ';':
			for i < len(source) && source[i] == ';' {
				i++
			}
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				end = len(source)
			} else {
				end += i
			}
			sb.WriteString("//")
			sb.WriteString(source[i:end])
			i = end

		case c == ':' && i+1 < len(source) && source[i+1] == '=':
			sb.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKeywordChar(source[j]) {
				j++
			}
			sb.WriteByte('"')
			sb.WriteString(source[i+1 : j])
			sb.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			sb.WriteByte('_')
			i++

		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// literalEnd returns the index just past the string literal that opens at
// start. Backslash escapes apply inside double quotes only. An unterminated
// literal runs to the end of the source.
func literalEnd(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch {
		case quote == '"' && s[i] == '\\':
			i++
		case s[i] == quote:
			return i + 1
		}
	}
	return len(s)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func isKeywordChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
