package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/value"
)

// readInput returns the document given as an argument, or stdin when the
// argument is "-" or missing.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// looksLikeJSON reports whether data starts like a JSON object or array.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// parseDocument decodes a JSON or YAML document. JSON numbers are kept as
// json.Number so large integers survive unchanged.
func parseDocument(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", model.ErrInvalidRecord)
	}

	if looksLikeJSON(data) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var doc any
		if err := dec.Decode(&doc); err == nil {
			return doc, nil
		}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRecord, err)
	}
	return normalizeYAML(doc), nil
}

// normalizeYAML converts the map[interface{}]interface{} mappings yaml.v3
// produces for non-string keys into map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}

// parseRecords decodes a single record or a sequence of records.
func parseRecords(data []byte) ([]map[string]any, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	switch value.Of(doc) {
	case value.Mapping:
		fields := value.Fields(doc)
		if _, ok := fields[model.SyncKey]; ok {
			return nil, fmt.Errorf("%w: %q is managed by the store", model.ErrReservedField, model.SyncKey)
		}
		return []map[string]any{fields}, nil
	case value.Sequence:
		elems := value.Elements(doc)
		records := make([]map[string]any, 0, len(elems))
		for i, e := range elems {
			if value.Of(e) != value.Mapping {
				return nil, fmt.Errorf("%w: element %d is not an object", model.ErrInvalidRecord, i)
			}
			fields := value.Fields(e)
			if _, ok := fields[model.SyncKey]; ok {
				return nil, fmt.Errorf("%w: element %d sets %q, which is managed by the store",
					model.ErrReservedField, i, model.SyncKey)
			}
			records = append(records, fields)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: expected an object or an array of objects", model.ErrInvalidRecord)
	}
}

// parseID interprets a command-line identifier. Numbers and booleans are
// typed so they match identifiers saved as JSON numbers or booleans; a
// quoted argument is always a string.
func parseID(arg string) any {
	if len(arg) >= 2 && strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
		if s, err := strconv.Unquote(arg); err == nil {
			return s
		}
	}
	switch {
	case arg == "true":
		return true
	case arg == "false":
		return false
	case jsonNumber.MatchString(arg):
		return json.Number(arg)
	}
	return arg
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
