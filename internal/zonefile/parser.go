package zonefile

import (
	"bufio"
	"strconv"
	"strings"

	"zone53/internal/model"
)

// parserState carries the mutable scan state: the $ORIGIN and $TTL
// currently in effect and the most recently seen owner name, which a
// blank-name line continues.
type parserState struct {
	origin string
	ttl    int64
	name   string
}

// Parse reads zone-file text and returns its resource records in file
// order. origin is the zone's domain and seeds the $ORIGIN state. In
// strict mode a record type outside the supported set is fatal; otherwise
// such records are skipped, since zone exports commonly carry SOA and
// other types this importer does not handle.
func Parse(text, origin string, strict bool) ([]Record, error) {
	st := parserState{
		origin: withTrailingDot(origin),
		ttl:    -1,
	}

	var records []Record
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		startLine := lineNum

		line := cutComment(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}

		// A record whose owner name is omitted starts with whitespace.
		blankName := line[0] == ' ' || line[0] == '\t'

		// Balanced-parenthesis continuation: newlines inside the group
		// are whitespace.
		depth := countParens(line)
		for depth > 0 && scanner.Scan() {
			lineNum++
			next := cutComment(scanner.Text())
			line += " " + next
			depth += countParens(next)
		}
		if depth > 0 {
			return nil, &ParseError{Line: startLine, Text: raw, Msg: "unterminated parenthesis group"}
		}
		if depth < 0 {
			return nil, &ParseError{Line: startLine, Text: raw, Msg: "unbalanced parenthesis"}
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "$") {
			if err := st.applyDirective(trimmed, startLine, raw); err != nil {
				return nil, err
			}
			continue
		}

		rec, skip, err := st.parseRecord(line, blankName, startLine, raw, strict)
		if err != nil {
			return nil, err
		}
		if !skip {
			records = append(records, rec)
		}
	}

	return records, nil
}

func (st *parserState) applyDirective(line string, lineNum int, raw string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "$ORIGIN":
		if len(fields) < 2 {
			return &ParseError{Line: lineNum, Text: raw, Msg: "$ORIGIN requires a domain name"}
		}
		st.origin = withTrailingDot(fields[1])
	case "$TTL":
		if len(fields) < 2 {
			return &ParseError{Line: lineNum, Text: raw, Msg: "$TTL requires a value"}
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || v < 0 {
			return &ParseError{Line: lineNum, Text: raw, Msg: "non-numeric $TTL value"}
		}
		st.ttl = v
	default:
		return &ParseError{Line: lineNum, Text: raw, Msg: "unsupported directive " + fields[0]}
	}
	return nil
}

// parseRecord handles one logical record line of the form
// "name? [ttl] [class] type rdata...". TTL and class may appear in either
// order. skip is true for an unsupported type in non-strict mode; the
// owner name is still remembered so later blank-name lines resolve.
func (st *parserState) parseRecord(line string, blankName bool, lineNum int, raw string, strict bool) (Record, bool, error) {
	tokens, err := tokenize(stripParens(line))
	if err != nil {
		return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: err.Error()}
	}
	if len(tokens) == 0 {
		return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: "incomplete record"}
	}

	if blankName {
		if st.name == "" {
			return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: "blank name with no previous record"}
		}
	} else {
		st.name = tokens[0]
		tokens = tokens[1:]
	}
	name := st.name

	ttl := int64(-1)
	class := ""
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if ttl < 0 && isNumeric(tok) {
			ttl, _ = strconv.ParseInt(tok, 10, 64)
			i++
			continue
		}
		if class == "" && tok == ClassIN {
			class = ClassIN
			i++
			continue
		}
		if isClassToken(tok) {
			return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: "unrecognized class " + tok}
		}
		break
	}

	if i >= len(tokens) {
		return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: "incomplete record"}
	}
	typ := strings.ToUpper(tokens[i])
	data := tokens[i+1:]

	if !model.IsSupportedType(typ) {
		if strict {
			return Record{}, false, &UnsupportedTypeError{Line: lineNum, Type: typ}
		}
		return Record{}, true, nil
	}
	if len(data) == 0 {
		return Record{}, false, &ParseError{Line: lineNum, Text: raw, Msg: "missing record data"}
	}

	if ttl < 0 {
		if st.ttl >= 0 {
			ttl = st.ttl
		} else {
			ttl = DefaultTTL
		}
	}

	return Record{
		Name:   name,
		TTL:    ttl,
		Class:  ClassIN,
		Type:   typ,
		Data:   data,
		Origin: st.origin,
		Line:   lineNum,
	}, false, nil
}

func withTrailingDot(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}
