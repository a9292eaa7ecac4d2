// Package zonefile parses DNS master-file text into raw resource records.
// It handles $ORIGIN and $TTL directives, blank-name continuation,
// multi-line records in balanced parentheses, and quoted rdata strings.
// Record names are left as written; qualification against the origin is
// the normalizer's job.
package zonefile

import "fmt"

// DefaultTTL applies when a record carries no TTL and no $TTL directive
// is in effect.
const DefaultTTL = 86400

// ClassIN is the only record class the importer accepts.
const ClassIN = "IN"

// Record is one resource record as read from the zone file. TTL is already
// resolved against the $TTL default in effect at the record's line. Origin
// is the $ORIGIN in effect there, always with a trailing dot.
type Record struct {
	Name   string
	TTL    int64
	Class  string
	Type   string
	Data   []string
	Origin string
	Line   int
}

// ParseError reports malformed zone-file syntax at a specific line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// UnsupportedTypeError reports a record type outside the supported set.
// It is fatal only when strict parsing is requested.
type UnsupportedTypeError struct {
	Line int
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported record type %q at line %d", e.Type, e.Line)
}
