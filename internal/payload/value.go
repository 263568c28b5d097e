package payload

import (
	"fmt"
	"slices"
)

// Value is a sealed interface over the JSON-like value types.
// Only Null, Missing, String, Number, Bool, Array, and Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null is an explicit JSON null. A key present with Null is a different
// payload than a key that is absent.
type Null struct{}

func (Null) value() {}

// MarshalJSON renders Null as JSON null in display contexts that go through
// encoding/json; the canonicalizer has its own encoder.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Missing marks a value that was never supplied (absent key). StripMissing
// removes object entries holding it; it should not survive into a canonical
// string under normal pipelines.
type Missing struct{}

func (Missing) value() {}

func (Missing) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// String is a JSON string value.
type String string

func (String) value() {}

// Number is a JSON number value. Stored as float64; serialized with the same
// shortest-round-trip form encoding/json uses, so client and server agree.
type Number float64

func (Number) value() {}

// Bool is a JSON boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered sequence of values. Element order is significant.
type Array []Value

func (Array) value() {}

// Object is a string-keyed map of values. Key order is not significant.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns the object's keys in byte/codepoint order. This is the
// canonical key order: plain lexicographic comparison of the UTF-8 strings,
// matching what a sorted JSON.stringify replacement on the client produces
// for the ASCII field names used throughout the calculation inputs.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy of the object. The copy shares no containers
// with the original.
func (obj Object) Clone() Object {
	out := make(Object, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case Object:
		return val.Clone()
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		// Null, Missing, String, Number, Bool are immutable.
		return v
	}
}

// FromGo converts plain Go data (as produced by yaml or json decoding into
// any) to a Value. Numeric Go types map to Number; nil maps to Null.
// Returns an error for types with no JSON-like representation.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = pv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = pv
		}
		return obj, nil
	case map[any]any:
		// yaml.v3 can produce this for non-string keys; only string keys
		// are representable.
		obj := make(Object, len(val))
		for k, elem := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v: non-string keys are not representable", k)
			}
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", ks, err)
			}
			obj[ks] = pv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type for payload value: %T", v)
	}
}

// MustFromGo is like FromGo but panics on error. Use only in tests or with
// inputs known to be representable.
func MustFromGo(v any) Value {
	pv, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return pv
}

// ToGo converts a Value back to plain Go data suitable for json.Marshal or
// display. Missing converts to nil, same as Null - callers that care about
// the distinction should strip first.
func ToGo(v Value) any {
	switch val := v.(type) {
	case nil, Null, Missing:
		return nil
	case String:
		return string(val)
	case Number:
		return float64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToGo(elem)
		}
		return out
	default:
		return nil
	}
}
