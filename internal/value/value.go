// Package value classifies loosely typed record values by shape.
//
// Records arrive from JSON, YAML or Go literals, so the same logical value
// can show up as []any or []string, map[string]any or map[string]string,
// int or float64. Everything that inspects record contents goes through
// Of, Elements, Fields and Equal instead of type-switching inline.
package value

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// Kind is the shape of a record value.
type Kind int

const (
	// Absent is a missing or nil value.
	Absent Kind = iota
	// Scalar is a string, number, bool or any other leaf value.
	Scalar
	// Sequence is an ordered list of values.
	Sequence
	// Mapping is a string-keyed set of named values.
	Mapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Of classifies v.
func Of(v any) Kind {
	switch v.(type) {
	case nil:
		return Absent
	case []any:
		return Sequence
	case map[string]any:
		return Mapping
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Scalar
	case []byte:
		return Scalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Absent
		}
		return Sequence
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar
		}
		if rv.IsNil() {
			return Absent
		}
		return Mapping
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Absent
		}
		return Of(rv.Elem().Interface())
	}
	return Scalar
}

// Elements returns the elements of a sequence value, or nil if v is not a
// sequence.
func Elements(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	if Of(v) != Sequence {
		return nil
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Fields returns the entries of a mapping value, or nil if v is not a
// mapping.
func Fields(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	if Of(v) != Mapping {
		return nil
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

// Equal reports whether a and b hold the same value.
//
// Comparison is strict: a string never equals a number and a bool never
// equals anything but a bool. Numbers compare by value regardless of their
// Go type. Absent values equal nothing, including other absent values.
func Equal(a, b any) bool {
	ka, kb := Of(a), Of(b)
	if ka != kb || ka == Absent {
		return false
	}

	switch ka {
	case Sequence:
		ea, eb := Elements(a), Elements(b)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}
		return true

	case Mapping:
		fa, fb := Fields(a), Fields(b)
		if len(fa) != len(fb) {
			return false
		}
		for k, va := range fa {
			vb, ok := fb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}

	return scalarEqual(a, b)
}

func scalarEqual(a, b any) bool {
	if na, ok := number(a); ok {
		nb, ok := number(b)
		return ok && numberEqual(na, nb)
	}
	if _, ok := number(b); ok {
		return false
	}

	if ba, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && string(ba) == string(bb)
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// numberEqual compares integral values exactly. When either side has a
// fractional part both are compared as float64, so a decoded 0.1 equals a
// float64 0.1.
func numberEqual(a, b *big.Rat) bool {
	if a.IsInt() && b.IsInt() {
		return a.Cmp(b) == 0
	}
	fa, _ := a.Float64()
	fb, _ := b.Float64()
	return fa == fb
}

// maxNumberLen bounds the json.Number text parsed exactly. Longer numbers
// fall back to float64 so a huge exponent cannot blow up big.Rat.
const maxNumberLen = 64

// number converts any numeric value to an exact rational. NaN and
// infinities are not numbers here.
func number(v any) (*big.Rat, bool) {
	r := new(big.Rat)
	switch n := v.(type) {
	case int:
		return r.SetInt64(int64(n)), true
	case int8:
		return r.SetInt64(int64(n)), true
	case int16:
		return r.SetInt64(int64(n)), true
	case int32:
		return r.SetInt64(int64(n)), true
	case int64:
		return r.SetInt64(n), true
	case uint:
		return r.SetUint64(uint64(n)), true
	case uint8:
		return r.SetUint64(uint64(n)), true
	case uint16:
		return r.SetUint64(uint64(n)), true
	case uint32:
		return r.SetUint64(uint64(n)), true
	case uint64:
		return r.SetUint64(n), true
	case float32:
		return floatNumber(float64(n))
	case float64:
		return floatNumber(n)
	case json.Number:
		if len(n) <= maxNumberLen && !strings.ContainsAny(string(n), "eE") {
			if _, ok := r.SetString(string(n)); ok {
				return r, true
			}
			return nil, false
		}
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return floatNumber(f)
	}
	return nil, false
}

func floatNumber(f float64) (*big.Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return new(big.Rat).SetFloat64(f), true
}

// Clone returns a deep copy of v. Sequences become []any and mappings
// become map[string]any; scalars are returned as-is.
func Clone(v any) any {
	switch Of(v) {
	case Sequence:
		src := Elements(v)
		out := make([]any, len(src))
		for i, e := range src {
			out[i] = Clone(e)
		}
		return out
	case Mapping:
		return CloneFields(Fields(v))
	}
	return v
}

// CloneFields deep-copies a record's fields.
func CloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = Clone(v)
	}
	return out
}
