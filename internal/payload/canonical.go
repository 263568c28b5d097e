package payload

import (
	"bytes"
	"math"
	"strconv"
	"unicode/utf8"
)

// StripMissing recursively returns a copy of v with every object entry whose
// value is Missing removed, at every depth, including objects nested inside
// array elements. Arrays never lose elements; only objects lose entries.
// The input is not mutated. Explicit Null entries survive.
func StripMissing(v Value) Value {
	switch val := v.(type) {
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			if _, absent := elem.(Missing); absent {
				continue
			}
			out[k] = StripMissing(elem)
		}
		return out
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = StripMissing(elem)
		}
		return out
	default:
		return v
	}
}

// CanonicalString serializes an already-stripped value to its byte-stable
// canonical form: object keys sorted (byte/codepoint order) at every level,
// array order preserved, JSON string escaping without HTML escaping, numbers
// in encoding/json shortest form. A stray Missing that survived stripping is
// serialized as null rather than failing - normal pipelines never hit that.
func CanonicalString(v Value) string {
	var buf bytes.Buffer
	appendCanonical(&buf, v)
	return buf.String()
}

// CanonicalizePayload is the single source-of-truth string form:
// CanonicalString(StripMissing(v)). Everything that needs payload identity -
// hashing, equality, dirty-tracking, recipe diffing - goes through here.
func CanonicalizePayload(v Value) string {
	return CanonicalString(StripMissing(v))
}

// PayloadsEqual reports whether two payloads are structurally equal under
// canonicalization. {a: Missing} equals {}; {a: null} does not.
func PayloadsEqual(a, b Value) bool {
	return CanonicalizePayload(a) == CanonicalizePayload(b)
}

func appendCanonical(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case nil, Null, Missing:
		buf.WriteString("null")
	case String:
		appendCanonicalString(buf, string(val))
	case Number:
		appendCanonicalNumber(buf, float64(val))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonical(buf, elem)
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, k)
			buf.WriteByte(':')
			appendCanonical(buf, val[k])
		}
		buf.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// appendCanonicalString writes a JSON string with the minimal escape set:
// quote, backslash, and control characters below U+0020. No HTML escaping
// (< > & stay literal) and no U+2028/U+2029 escaping, matching what
// JSON.stringify emits on the client side of the hash-agreement contract.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			buf.WriteString(s[start:i])
			switch b {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[b>>4])
				buf.WriteByte(hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}

// appendCanonicalNumber formats a float64 the way encoding/json does:
// shortest round-trip decimal, exponent form only outside [1e-6, 1e21),
// with the two-digit exponent padding trimmed. NaN and infinities have no
// JSON form; they serialize defensively as null rather than erroring.
func appendCanonicalNumber(buf *bytes.Buffer, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// Trim "e-09" style padding down to "e-9".
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	buf.Write(b)
}
