package snmp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StringMode selects how an OCTET STRING with no usable DISPLAY-HINT (or
// with hint rendering disabled) is printed.
type StringMode int

const (
	// StringDefault picks printable-ASCII or space-separated hex heuristically.
	StringDefault StringMode = iota
	StringAscii
	StringHex
)

// PrintOptions controls FormatVarbind/FormatValue, mirroring the CLI's
// `-O` output flag characters (spec.md §6).
type PrintOptions struct {
	PrintEquals bool
	VarbindOnly bool
	UseHint     bool
	OIDMode     OIDMode
	StringMode  StringMode
	Table       *Table
}

// FormatVarbind renders a single varbind per spec.md §4.8, honoring
// PrintEquals/VarbindOnly.
func FormatVarbind(vb *Varbind, opts PrintOptions) string {
	value := FormatValue(vb.Name, vb.Value, opts)

	switch {
	case opts.VarbindOnly:
		return value
	case opts.PrintEquals:
		return FormatOID(vb.Name, opts.OIDMode, opts.Table) + " = " + value
	default:
		return FormatOID(vb.Name, opts.OIDMode, opts.Table) + " " + value
	}
}

// FormatValue renders v, consulting opts.Table for oid's display hint and
// integer-enumeration labels. Renders carry the net-snmp-style SNMP
// type-name prefix (spec.md §4.8 scenario 1: "STRING:", "INTEGER:", ...),
// except for NULL and the exception values (noSuchObject and friends),
// which print Value.String's placeholder text unprefixed.
func FormatValue(oid OID, v Value, opts PrintOptions) string {
	switch v.Type {
	case TypeInteger:
		n, _ := v.Int64()
		if opts.Table != nil {
			if enum, ok := opts.Table.EnumFor(oid); ok {
				if label, ok := enum[n]; ok {
					return "INTEGER: " + label
				}
			}
		}
		return "INTEGER: " + strconv.FormatInt(n, 10)
	case TypeOctetString:
		b, _ := v.Bytes()
		rendered, hex := formatOctetString(oid, b, opts)
		if hex {
			return "Hex-STRING: " + rendered
		}
		return "STRING: " + rendered
	case TypeOpaque:
		b, _ := v.Bytes()
		return "Opaque: " + formatHexBytes(b, " ")
	case TypeOID:
		o, _ := v.OIDValue()
		return "OID: " + FormatOID(o, opts.OIDMode, opts.Table)
	case TypeCounter32:
		n, _ := v.Uint32()
		return "Counter32: " + strconv.FormatUint(uint64(n), 10)
	case TypeGauge32:
		n, _ := v.Uint32()
		return "Gauge32: " + strconv.FormatUint(uint64(n), 10)
	case TypeTimeTicks:
		n, _ := v.Uint32()
		if opts.UseHint {
			return fmt.Sprintf("Timeticks: (%d) %s", n, formatTimeTicksDuration(n))
		}
		return "Timeticks: " + strconv.FormatUint(uint64(n), 10)
	case TypeCounter64:
		n, _ := v.Uint64()
		return "Counter64: " + strconv.FormatUint(n, 10)
	case TypeIPAddress:
		a, _ := v.IPAddress()
		return fmt.Sprintf("IpAddress: %d.%d.%d.%d", a[0], a[1], a[2], a[3])
	default:
		return v.String()
	}
}

// formatTimeTicksDuration renders n hundredths of a second as
// "d:hh:mm:ss.cc".
func formatTimeTicksDuration(n uint32) string {
	cs := n % 100
	secs := n / 100
	days := secs / 86400
	secs %= 86400
	h := secs / 3600
	secs %= 3600
	m := secs / 60
	s := secs % 60
	return fmt.Sprintf("%d:%02d:%02d:%02d.%02d", days, h, m, s, cs)
}

// formatOctetString renders an OCTET STRING's bytes and reports whether the
// rendering is hex (so FormatValue can choose the "STRING:"/"Hex-STRING:"
// prefix per spec.md §4.8).
func formatOctetString(oid OID, b []byte, opts PrintOptions) (string, bool) {
	switch opts.StringMode {
	case StringAscii:
		return `"` + string(b) + `"`, false
	case StringHex:
		return formatHexBytes(b, " "), true
	}

	if opts.UseHint && opts.Table != nil {
		if hint, ok := opts.Table.HintFor(oid); ok {
			if rendered, err := applyDisplayHint(hint, b); err == nil {
				if isASCIIDisplayHint(hint) {
					return `"` + rendered + `"`, false
				}
				return rendered, false
			}
		}
	}

	if isPrintableASCII(b) {
		return `"` + string(b) + `"`, false
	}
	return formatHexBytes(b, " "), true
}

// isASCIIDisplayHint reports whether hint is a plain ASCII rendering (a
// single "Na" group, e.g. sysDescr's "255a"), which by net-snmp convention
// prints quoted like the no-hint default rather than as bare text.
func isASCIIDisplayHint(hint string) bool {
	specs, err := parseDisplayHint(hint)
	if err != nil {
		return false
	}
	return len(specs) == 1 && specs[0].typ == 'a'
}

func formatHexBytes(b []byte, sep string) string {
	parts := make([]string, len(b))
	for i, by := range b {
		parts[i] = fmt.Sprintf("%02X", by)
	}
	return strings.Join(parts, sep)
}

func isPrintableASCII(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			if c == '\t' || c == '\r' || c == '\n' {
				continue
			}
			return false
		}
	}
	return true
}

// hintSpec is one repeat-group of a DISPLAY-HINT string: `count`/`*` `type`
// [`-`scale] [separator], per RFC 2579 §3.1 (simplified: only the a/x/o/d/t
// conversions named in spec.md §4.8 are supported).
type hintSpec struct {
	count    int
	variable bool
	typ      byte
	scale    int
	sep      string
}

func parseDisplayHint(hint string) ([]hintSpec, error) {
	var specs []hintSpec
	i := 0
	for i < len(hint) {
		start := i
		for i < len(hint) && isASCIIDigit(hint[i]) {
			i++
		}
		count := -1
		variable := false
		if i > start {
			n, err := strconv.Atoi(hint[start:i])
			if err != nil {
				return nil, err
			}
			count = n
		} else if i < len(hint) && hint[i] == '*' {
			variable = true
			i++
		} else {
			return nil, errors.Errorf("snmp: malformed DISPLAY-HINT %q at offset %d", hint, i)
		}

		if i >= len(hint) {
			return nil, errors.Errorf("snmp: DISPLAY-HINT %q missing conversion type", hint)
		}
		typ := hint[i]
		i++

		scale := 0
		if typ == 'd' && i < len(hint) && hint[i] == '-' {
			j := i + 1
			for j < len(hint) && isASCIIDigit(hint[j]) {
				j++
			}
			n, err := strconv.Atoi(hint[i+1 : j])
			if err != nil {
				return nil, err
			}
			scale = n
			i = j
		}

		sepStart := i
		for i < len(hint) && !isASCIIDigit(hint[i]) && hint[i] != '*' {
			i++
		}

		specs = append(specs, hintSpec{count: count, variable: variable, typ: typ, scale: scale, sep: hint[sepStart:i]})
	}
	return specs, nil
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }

// applyDisplayHint renders b by cycling hint's repeat-groups until every
// byte is consumed, e.g. hint "1x:" over a 6-byte MAC renders
// "aa:bb:cc:dd:ee:ff".
func applyDisplayHint(hint string, b []byte) (string, error) {
	specs, err := parseDisplayHint(hint)
	if err != nil {
		return "", err
	}
	if len(specs) == 0 {
		return "", errors.New("snmp: empty DISPLAY-HINT")
	}

	var out strings.Builder
	pos := 0
	specIdx := 0
	for pos < len(b) {
		spec := specs[specIdx%len(specs)]
		n := spec.count
		if spec.variable {
			if pos >= len(b) {
				break
			}
			n = int(b[pos])
			pos++
		}
		if n < 0 || pos+n > len(b) {
			n = len(b) - pos
		}
		group := b[pos : pos+n]
		pos += n

		rendered, err := renderHintGroup(spec, group)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)

		specIdx++
		if pos < len(b) {
			out.WriteString(spec.sep)
		}
	}
	return out.String(), nil
}

func renderHintGroup(spec hintSpec, group []byte) (string, error) {
	switch spec.typ {
	case 'a':
		return string(group), nil
	case 'x':
		return fmt.Sprintf("%x", group), nil
	case 'o':
		return strconv.FormatUint(groupToUint(group), 8), nil
	case 'd':
		v := groupToUint(group)
		if spec.scale == 0 {
			return strconv.FormatUint(v, 10), nil
		}
		s := strconv.FormatUint(v, 10)
		for len(s) <= spec.scale {
			s = "0" + s
		}
		whole, frac := s[:len(s)-spec.scale], s[len(s)-spec.scale:]
		return whole + "." + frac, nil
	case 't':
		return formatDateAndTime(group), nil
	default:
		return "", errors.Errorf("snmp: unsupported DISPLAY-HINT conversion %q", string(spec.typ))
	}
}

func groupToUint(b []byte) uint64 {
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return v
}

// formatDateAndTime renders the RFC 2579 DateAndTime octet-string encoding
// (8 bytes, or 11 with a UTC offset) as an ISO-8601-like timestamp. Any
// other length is rendered as hex.
func formatDateAndTime(b []byte) string {
	if len(b) != 8 && len(b) != 11 {
		return formatHexBytes(b, "")
	}
	year := int(b[0])<<8 | int(b[1])
	month, day, hour, min, sec, deci := b[2], b[3], b[4], b[5], b[6], b[7]
	base := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%d", year, month, day, hour, min, sec, deci)
	if len(b) == 8 {
		return base + "Z"
	}
	sign := "+"
	if b[8] == '-' {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%02d:%02d", base, sign, b[9], b[10])
}
