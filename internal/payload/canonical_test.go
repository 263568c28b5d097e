package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalStringBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"integer-valued number", Number(42), "42"},
		{"negative number", Number(-100), "-100"},
		{"zero", Number(0), "0"},
		{"fractional number", Number(104.72), "104.72"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"null", Null{}, "null"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of numbers", Array{Number(1), Number(2), Number(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Number(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalString(tt.input))
		})
	}
}

func TestCanonicalStringSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Number(1),
		"alpha": Number(2),
		"beta":  Number(3),
	}
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, CanonicalString(obj))
}

func TestCanonicalStringNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{
			"b": Number(1),
			"a": Number(2),
		},
		"a": Number(3),
	}
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, CanonicalString(obj))
}

func TestCanonicalStringNoHTMLEscape(t *testing.T) {
	got := CanonicalString(String("<a> & </a>"))
	assert.Equal(t, `"<a> & </a>"`, got)
	assert.NotContains(t, got, `\u003c`)
	assert.NotContains(t, got, `\u0026`)
}

func TestCanonicalStringEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline tab", "a\n\tb", `"a\n\tb"`},
		{"low control", "\x01", `"\u0001"`},
		{"unicode passthrough", "café", "\"café\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalString(String(tt.input)))
		})
	}
}

func TestCanonicalNumberFormatting(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"whole", 5, "5"},
		{"decimal", 0.25, "0.25"},
		{"tiny uses exponent", 1e-7, "1e-7"},
		{"huge uses exponent", 1e21, "1e+21"},
		{"negative", -3.5, "-3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalString(Number(tt.input)))
		})
	}
}

func TestStripMissing(t *testing.T) {
	in := Object{
		"keep":    Number(1),
		"gone":    Missing{},
		"null_ok": Null{},
		"nested": Object{
			"deep_gone": Missing{},
			"deep_keep": String("x"),
		},
		"arr": Array{
			Object{"inner_gone": Missing{}, "inner_keep": Bool(false)},
			Null{},
		},
	}

	got := StripMissing(in).(Object)

	assert.NotContains(t, got, "gone")
	assert.Contains(t, got, "null_ok")
	assert.NotContains(t, got.Clone()["nested"].(Object), "deep_gone")

	arr := got["arr"].(Array)
	require.Len(t, arr, 2) // arrays never lose elements
	assert.NotContains(t, arr[0].(Object), "inner_gone")
	assert.Equal(t, Bool(false), arr[0].(Object)["inner_keep"])

	// Input not mutated.
	assert.Contains(t, in, "gone")
	assert.Contains(t, in["nested"].(Object), "deep_gone")
}

// TestPayloadsEqualMatrix is the missing-vs-null contract. A key that was
// never supplied equals an object without the key; a key explicitly set to
// null does not.
func TestPayloadsEqualMatrix(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"missing key equals absent key", Object{"a": Missing{}}, Object{}, true},
		{"explicit null differs from absent", Object{"a": Null{}}, Object{}, false},
		{"missing differs from null", Object{"a": Missing{}}, Object{"a": Null{}}, false},
		{"key order irrelevant", Object{"a": Number(1), "b": Number(2)}, Object{"b": Number(2), "a": Number(1)}, true},
		{"array order relevant", Array{Number(1), Number(2), Number(3)}, Array{Number(3), Number(2), Number(1)}, false},
		{"deep missing strip", Object{"x": Array{Object{"y": Missing{}}}}, Object{"x": Array{Object{}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, PayloadsEqual(tt.a, tt.b))
		})
	}
}

func TestHashCanonicalStability(t *testing.T) {
	a := Object{"b": Number(1), "a": Number(2)}
	b := Object{"a": Number(2), "b": Number(1)}
	assert.Equal(t, HashCanonical(a), HashCanonical(b))

	assert.NotEqual(t,
		HashCanonical(Object{"a": Number(1)}),
		HashCanonical(Object{"a": Number(2)}))

	// 256-bit digest as lowercase hex.
	h := HashCanonical(a)
	assert.Len(t, h, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", h)
}

func TestHashCanonicalIgnoresMissing(t *testing.T) {
	assert.Equal(t,
		HashCanonical(Object{"a": Number(1), "phantom": Missing{}}),
		HashCanonical(Object{"a": Number(1)}))
}
