package zonefile

import (
	"errors"
	"strconv"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quoted string")

// tokenize splits a line into whitespace-separated tokens. A quoted string
// is one token, kept with its surrounding quotes; embedded whitespace,
// semicolons, and escaped quotes (\") are preserved inside it.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	escaped := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case inQuotes && c == '\\':
			cur.WriteByte(c)
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
			if !inQuotes {
				flush()
			}
		case !inQuotes && (c == ' ' || c == '\t'):
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuotes || escaped {
		return nil, errUnterminatedQuote
	}
	flush()
	return tokens, nil
}

// cutComment drops everything from the first semicolon that is not inside
// a quoted string.
func cutComment(line string) string {
	inQuotes := false
	escaped := false
	for i := 0; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case inQuotes && line[i] == '\\':
			escaped = true
		case line[i] == '"':
			inQuotes = !inQuotes
		case !inQuotes && line[i] == ';':
			return line[:i]
		}
	}
	return line
}

// countParens counts unquoted parentheses, returning the number of opens
// minus closes.
func countParens(line string) int {
	depth := 0
	inQuotes := false
	escaped := false
	for i := 0; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case inQuotes && line[i] == '\\':
			escaped = true
		case line[i] == '"':
			inQuotes = !inQuotes
		case !inQuotes && line[i] == '(':
			depth++
		case !inQuotes && line[i] == ')':
			depth--
		}
	}
	return depth
}

// stripParens replaces unquoted parentheses with spaces so a joined
// multi-line record tokenizes like a single line.
func stripParens(line string) string {
	b := []byte(line)
	inQuotes := false
	escaped := false
	for i := 0; i < len(b); i++ {
		switch {
		case escaped:
			escaped = false
		case inQuotes && b[i] == '\\':
			escaped = true
		case b[i] == '"':
			inQuotes = !inQuotes
		case !inQuotes && (b[i] == '(' || b[i] == ')'):
			b[i] = ' '
		}
	}
	return string(b)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseUint(s, 10, 32)
	return err == nil
}

// isClassToken reports whether s names a record class other than IN.
// These are rejected rather than silently treated as a type.
func isClassToken(s string) bool {
	switch s {
	case "CH", "HS", "CS":
		return true
	}
	return strings.HasPrefix(s, "CLASS") && len(s) > 5 && isNumeric(s[5:])
}
