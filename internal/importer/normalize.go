package importer

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"zone53/internal/model"
	"zone53/internal/zonefile"
)

// NormalizeOptions control name resolution and filtering.
type NormalizeOptions struct {
	// Domain is the target zone's domain name (trailing dot optional).
	Domain string
	// Filter keeps only records of this type; model.TypeAll keeps every
	// supported type.
	Filter string
	// Lenient logs and skips records that fail value rendering instead of
	// aborting.
	Lenient bool
}

// Normalize resolves names against the origin, applies the type filter and
// the apex NS exception, and renders each record's rdata into the single
// string form Route53 expects.
func Normalize(records []zonefile.Record, opts NormalizeOptions) ([]model.Record, error) {
	domain := strings.TrimSuffix(opts.Domain, ".")

	var out []model.Record
	for _, raw := range records {
		if opts.Filter != model.TypeAll && raw.Type != opts.Filter {
			continue
		}

		fqdn := resolveName(raw.Name, raw.Origin, domain)

		// Apex NS delegation belongs to the hosted-zone infrastructure and
		// must not be overwritten by an import.
		if raw.Type == model.TypeNS && fqdn == domain {
			continue
		}

		value, err := renderValue(raw.Type, raw.Data)
		if err != nil {
			verr := &ValidationError{Line: raw.Line, FQDN: fqdn, Type: raw.Type, Msg: err.Error()}
			if opts.Lenient {
				log.Printf("Skipping record: %v", verr)
				continue
			}
			return nil, verr
		}

		out = append(out, model.Record{
			FQDN:  fqdn,
			Type:  raw.Type,
			TTL:   raw.TTL,
			Value: value,
		})
	}
	return out, nil
}

// resolveName turns a zone-file owner name into a fully-qualified name
// without a trailing dot. "@" is the target domain, an absolute name is
// used verbatim, and anything else is relative to the record's origin.
func resolveName(name, origin, domain string) string {
	if name == "@" {
		return domain
	}
	if strings.HasSuffix(name, ".") {
		return strings.TrimSuffix(name, ".")
	}
	return name + "." + strings.TrimSuffix(origin, ".")
}

// renderValue produces the textual rdata form Route53 expects for each
// supported type. The type set is closed: a new type needs a case here.
func renderValue(typ string, data []string) (string, error) {
	switch typ {
	case model.TypeA:
		return renderAddress(data, false)
	case model.TypeAAAA:
		return renderAddress(data, true)
	case model.TypeCNAME, model.TypeNS, model.TypePTR:
		if len(data) < 1 {
			return "", fmt.Errorf("missing target name")
		}
		return forceTrailingDot(data[0]), nil
	case model.TypeMX:
		if len(data) < 2 {
			return "", fmt.Errorf("requires priority and mail host")
		}
		pri, err := strconv.ParseUint(data[0], 10, 16)
		if err != nil {
			return "", fmt.Errorf("non-numeric priority %q", data[0])
		}
		return fmt.Sprintf("%d %s", pri, forceTrailingDot(data[1])), nil
	case model.TypeSRV:
		if len(data) < 4 {
			return "", fmt.Errorf("requires priority, weight, port and target")
		}
		nums := make([]uint64, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(data[i], 10, 16)
			if err != nil {
				return "", fmt.Errorf("non-numeric field %q", data[i])
			}
			nums[i] = v
		}
		return fmt.Sprintf("%d %d %d %s", nums[0], nums[1], nums[2], forceTrailingDot(data[3])), nil
	case model.TypeTXT, model.TypeSPF:
		return renderText(data), nil
	}
	return "", fmt.Errorf("no renderer for type %s", typ)
}

func renderAddress(data []string, ipv6 bool) (string, error) {
	if len(data) < 1 {
		return "", fmt.Errorf("missing address")
	}
	ip := net.ParseIP(data[0])
	if ip == nil {
		return "", fmt.Errorf("malformed address literal %q", data[0])
	}
	if ipv6 && ip.To4() != nil {
		return "", fmt.Errorf("%q is not an IPv6 address", data[0])
	}
	if !ipv6 && ip.To4() == nil {
		return "", fmt.Errorf("%q is not an IPv4 address", data[0])
	}
	return data[0], nil
}

func forceTrailingDot(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// maxTextSegment is the longest character-string a single quoted TXT
// segment may carry.
const maxTextSegment = 255

// renderText flattens TXT/SPF rdata tokens into one string and re-quotes
// it. Quoted source segments are concatenated without a delimiter; plain
// tokens keep their separating spaces. Strings over 255 bytes are split
// into consecutive quoted segments with nothing between them, which is the
// chunked form the record store accepts.
func renderText(data []string) string {
	var b strings.Builder
	prevQuoted := false
	for i, tok := range data {
		quoted := isQuoted(tok)
		if i > 0 && !quoted && !prevQuoted {
			b.WriteString(" ")
		}
		b.WriteString(unquote(tok))
		prevQuoted = quoted
	}
	return chunkQuote(b.String())
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

func chunkQuote(s string) string {
	if len(s) <= maxTextSegment {
		return `"` + s + `"`
	}
	var b strings.Builder
	for len(s) > maxTextSegment {
		b.WriteString(`"` + s[:maxTextSegment] + `"`)
		s = s[maxTextSegment:]
	}
	b.WriteString(`"` + s + `"`)
	return b.String()
}
