// Package filter evaluates filter specifications against records.
//
// A Spec maps field names to criteria. A criterion is a literal value, a
// nested mapping matched field by field, or a Descriptor listing several
// candidate values with its own any/all mode. Fields are evaluated
// independently and combined with AND (the default) or OR.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/value"
)

// Descriptor keys recognised when a descriptor is written as a plain mapping.
const (
	DataKey     = "data"
	MatchAnyKey = "matchAny"
)

// Spec maps field names to criteria.
type Spec map[string]any

// Descriptor matches a field against several candidate values. MatchAny
// overrides the global combination mode for this field only.
type Descriptor struct {
	Data     []any `json:"data"`
	MatchAny bool  `json:"matchAny"`
}

// Any builds a descriptor that matches when any candidate matches.
func Any(candidates ...any) Descriptor {
	return Descriptor{Data: candidates, MatchAny: true}
}

// All builds a descriptor that matches only when every candidate matches.
func All(candidates ...any) Descriptor {
	return Descriptor{Data: candidates}
}

// Parse decodes a JSON filter document. Numbers are kept as json.Number so
// large identifiers survive intact.
func Parse(data []byte) (Spec, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFilter, err)
	}
	return spec, nil
}

// Match reports whether record satisfies spec. With matchAny false every
// field must match; with matchAny true one matching field is enough. An
// empty spec matches everything.
func Match(record map[string]any, spec Spec, matchAny bool) bool {
	if len(spec) == 0 {
		return true
	}

	for field, criterion := range spec {
		result := matchField(record[field], criterion, matchAny)
		if matchAny && result {
			return true
		}
		if !matchAny && !result {
			return false
		}
	}
	return !matchAny
}

// matchField evaluates a single criterion against the record's value.
func matchField(v, criterion any, matchAny bool) bool {
	if d, ok := asDescriptor(criterion); ok {
		return matchDescriptor(v, d)
	}

	switch value.Of(criterion) {
	case value.Mapping:
		return matchMapping(v, value.Fields(criterion))
	case value.Absent:
		return false
	}

	if value.Of(v) == value.Sequence {
		return matchElements(value.Elements(v), criterion, matchAny)
	}
	return value.Equal(criterion, v)
}

// asDescriptor recognises Descriptor values and their mapping form
// {"data": [...], "matchAny": bool}.
func asDescriptor(criterion any) (Descriptor, bool) {
	switch d := criterion.(type) {
	case Descriptor:
		return d, true
	case *Descriptor:
		if d == nil {
			return Descriptor{}, false
		}
		return *d, true
	}

	fields := value.Fields(criterion)
	if fields == nil {
		return Descriptor{}, false
	}
	data, ok := fields[DataKey]
	if !ok || value.Of(data) != value.Sequence {
		return Descriptor{}, false
	}
	for k := range fields {
		if k != DataKey && k != MatchAnyKey {
			return Descriptor{}, false
		}
	}

	matchAny, _ := fields[MatchAnyKey].(bool)
	return Descriptor{Data: value.Elements(data), MatchAny: matchAny}, true
}

// matchDescriptor evaluates a descriptor using its own combination mode.
func matchDescriptor(v any, d Descriptor) bool {
	switch value.Of(v) {
	case value.Absent:
		return false
	case value.Sequence:
		return matchSequence(value.Elements(v), d)
	}

	isMapping := value.Of(v) == value.Mapping
	for _, candidate := range d.Data {
		var ok bool
		if isMapping && value.Of(candidate) == value.Mapping {
			ok = matchMapping(v, value.Fields(candidate))
		} else {
			ok = value.Equal(candidate, v)
		}

		if d.MatchAny && ok {
			return true
		}
		if !d.MatchAny && !ok {
			return false
		}
	}
	return !d.MatchAny
}
