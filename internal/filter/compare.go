package filter

import "github.com/user/recstore/internal/value"

// matchSequence compares descriptor candidates with the elements of a
// sequence-valued field. An empty sequence never matches.
//
// In any mode one shared value is enough. In all mode the candidates and
// the elements must have the same membership: every candidate appears in
// the sequence and every element is one of the candidates.
func matchSequence(elems []any, d Descriptor) bool {
	if len(elems) == 0 {
		return false
	}

	if d.MatchAny {
		for _, candidate := range d.Data {
			if contains(elems, candidate) {
				return true
			}
		}
		return false
	}

	for _, candidate := range d.Data {
		if !contains(elems, candidate) {
			return false
		}
	}
	for _, e := range elems {
		if !contains(d.Data, e) {
			return false
		}
	}
	return true
}

// matchElements compares one literal with every element of a sequence-valued
// field, using the global combination mode.
func matchElements(elems []any, literal any, matchAny bool) bool {
	if len(elems) == 0 {
		return false
	}

	for _, e := range elems {
		eq := value.Equal(literal, e)
		if matchAny && eq {
			return true
		}
		if !matchAny && !eq {
			return false
		}
	}
	return !matchAny
}

// matchMapping walks a nested filter mapping against the record value.
// Every filter key must be present; nested mappings recurse and leaves
// compare with value.Equal.
func matchMapping(v any, want map[string]any) bool {
	got := value.Fields(v)
	if got == nil {
		return false
	}

	for k, w := range want {
		g, ok := got[k]
		if !ok {
			return false
		}
		if value.Of(w) == value.Mapping {
			if !matchMapping(g, value.Fields(w)) {
				return false
			}
			continue
		}
		if !value.Equal(w, g) {
			return false
		}
	}
	return true
}

func contains(elems []any, v any) bool {
	for _, e := range elems {
		if value.Equal(e, v) {
			return true
		}
	}
	return false
}
