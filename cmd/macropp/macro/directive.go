package macro

import "strings"

const directivePrefix = "#define"

// ParseDirective recognises a "#define NAME VALUE" line. The line must start
// with exactly "#define"; the name is the run of identifier bytes after
// optional blanks (it may be empty, which Define reports as malformed), and
// the value runs from the next non-blank byte to the following blank, line
// break or end of line.
func ParseDirective(line string) (identifier, value string, ok bool) {
	rest, ok := strings.CutPrefix(line, directivePrefix)
	if !ok {
		return "", "", false
	}
	rest = skipBlanks(rest)
	n := 0
	for n < len(rest) && IsIdentifierByte(rest[n]) {
		n++
	}
	identifier, rest = rest[:n], skipBlanks(rest[n:])
	if end := strings.IndexAny(rest, " \t\r\n"); end >= 0 {
		rest = rest[:end]
	}
	return identifier, rest, true
}

// IsDirective reports whether line is a #define line and so must not be
// emitted.
func IsDirective(line string) bool {
	return strings.HasPrefix(line, directivePrefix)
}

func skipBlanks(s string) string {
	return strings.TrimLeft(s, " \t")
}

// IsIdentifierByte reports whether b may appear in an identifier.
func IsIdentifierByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// ValidIdentifier reports whether s is a non-empty run of identifier bytes.
// Leading digits are allowed.
func ValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsIdentifierByte(s[i]) {
			return false
		}
	}
	return true
}
