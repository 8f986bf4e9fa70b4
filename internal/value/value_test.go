package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	var nilSlice []string
	var nilMap map[string]int

	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"nil", nil, Absent},
		{"nil typed slice", nilSlice, Absent},
		{"nil typed map", nilMap, Absent},
		{"string", "x", Scalar},
		{"int", 3, Scalar},
		{"float", 3.5, Scalar},
		{"bool", true, Scalar},
		{"json number", json.Number("12"), Scalar},
		{"bytes", []byte("ab"), Scalar},
		{"any slice", []any{1, "a"}, Sequence},
		{"string slice", []string{"a"}, Sequence},
		{"array", [2]int{1, 2}, Sequence},
		{"any map", map[string]any{"a": 1}, Mapping},
		{"string map", map[string]string{"a": "b"}, Mapping},
		{"int keyed map", map[int]string{1: "b"}, Scalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.v))
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int and float", 1, 1.0, true},
		{"int64 and json number", int64(42), json.Number("42"), true},
		{"large json numbers differ", json.Number("9007199254740992"), json.Number("9007199254740993"), false},
		{"large int64 and json number", int64(9007199254740993), json.Number("9007199254740993"), true},
		{"large int64 and float", int64(9007199254740993), float64(9007199254740992), false},
		{"uint64 beyond int64", uint64(18446744073709551615), json.Number("18446744073709551615"), true},
		{"fraction and float", json.Number("0.1"), 0.1, true},
		{"fraction and integer", json.Number("2.5"), 2, false},
		{"exponent form", json.Number("1.5e3"), 1500, true},
		{"float and integral json number", 3.0, json.Number("3"), true},
		{"number and numeric string", 1, "1", false},
		{"bool and number", true, 1, false},
		{"bools", false, false, true},
		{"nil never equals nil", nil, nil, false},
		{"nil and zero", nil, 0, false},
		{"sequences", []any{1, "a"}, []string{"1", "a"}, false},
		{"typed and untyped sequences", []any{"a", "b"}, []string{"a", "b"}, true},
		{"sequence order matters", []any{"a", "b"}, []any{"b", "a"}, false},
		{"mappings", map[string]any{"a": 1.0}, map[string]int{"a": 1}, true},
		{"mapping extra key", map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
		{"scalar and sequence", "a", []any{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a), "equality must be symmetric")
		})
	}
}

func TestElementsAndFields(t *testing.T) {
	assert.Equal(t, []any{"a", "b"}, Elements([]string{"a", "b"}))
	assert.Nil(t, Elements("a"))

	assert.Equal(t, map[string]any{"k": "v"}, Fields(map[string]string{"k": "v"}))
	assert.Nil(t, Fields(3))
}

func TestClone(t *testing.T) {
	orig := map[string]any{
		"tags":   []any{"x", "y"},
		"nested": map[string]any{"deep": []string{"z"}},
		"n":      1,
	}

	cp := CloneFields(orig)
	assert.True(t, Equal(orig, cp))

	cp["tags"].([]any)[0] = "changed"
	cp["nested"].(map[string]any)["deep"].([]any)[0] = "changed"

	assert.Equal(t, "x", orig["tags"].([]any)[0])
	assert.Equal(t, []string{"z"}, orig["nested"].(map[string]any)["deep"])
	assert.Nil(t, CloneFields(nil))
}
