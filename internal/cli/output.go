package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/value"
)

// maxColumnWidth caps table column widths.
const maxColumnWidth = 40

// printStructured writes v as indented JSON or YAML depending on the global
// flags. It returns false when neither is selected.
func printStructured(v any) (bool, error) {
	switch {
	case GetJSONOutput():
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return true, nil
	case GetYAMLOutput():
		data, err := yaml.Marshal(plain(v))
		if err != nil {
			return true, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(data))
		return true, nil
	}
	return false, nil
}

// plain rewrites v for YAML encoding: json.Number becomes an int64 or
// float64 and records become their flattened maps.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case model.Record:
		return plain(recordMap(&t))
	case []model.Record:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plain(recordMap(&t[i]))
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = plain(m)
		}
		return out
	}

	switch value.Of(v) {
	case value.Mapping:
		fields := value.Fields(v)
		out := make(map[string]any, len(fields))
		for k, e := range fields {
			out[k] = plain(e)
		}
		return out
	case value.Sequence:
		elems := value.Elements(v)
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

// recordMap flattens a record with its sync status under the reserved key.
func recordMap(r *model.Record) map[string]any {
	out := value.CloneFields(r.Fields)
	if out == nil {
		out = map[string]any{}
	}
	if r.Status != model.StatusUntracked {
		out[model.SyncKey] = r.Status.String()
	}
	return out
}

// printRecords writes records as JSON, YAML or a table.
func printRecords(records []map[string]any, idField string) error {
	if ok, err := printStructured(records); ok {
		return err
	}

	if len(records) == 0 {
		if !IsQuiet() {
			fmt.Println("No records.")
		}
		return nil
	}

	columns := recordColumns(records, idField)
	rows := make([]map[string]interface{}, len(records))
	for i, r := range records {
		row := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			if v, ok := r[col]; ok {
				row[col] = cellValue(v)
			} else {
				row[col] = ""
			}
		}
		rows[i] = row
	}

	printTable(columns, rows)
	if !IsQuiet() {
		fmt.Printf("\n%d record(s)\n", len(records))
	}
	return nil
}

// recordColumns returns the union of record keys in first-seen order, with
// the identifier field first.
func recordColumns(records []map[string]any, idField string) []string {
	seen := map[string]bool{}
	var columns []string
	add := func(col string) {
		if !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}

	for _, r := range records {
		if _, ok := r[idField]; ok {
			add(idField)
			break
		}
	}
	for _, r := range records {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			add(k)
		}
	}
	return columns
}

// cellValue renders a field for a table cell. Nested values are shown as
// compact JSON.
func cellValue(v any) string {
	switch value.Of(v) {
	case value.Absent:
		return "null"
	case value.Mapping, value.Sequence:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

// printTable writes rows as an aligned text table.
func printTable(columns []string, rows []map[string]interface{}) {
	// Calculate column widths
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, col := range columns {
			val := fmt.Sprintf("%v", row[col])
			if len(val) > widths[i] {
				widths[i] = len(val)
			}
		}
	}

	// Cap column widths
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}

	// Print header
	headerParts := make([]string, len(columns))
	separatorParts := make([]string, len(columns))
	for i, col := range columns {
		headerParts[i] = fmt.Sprintf("%-*s", widths[i], col)
		separatorParts[i] = strings.Repeat("-", widths[i])
	}
	fmt.Println(strings.Join(headerParts, "  "))
	fmt.Println(strings.Join(separatorParts, "  "))

	// Print rows
	for _, row := range rows {
		rowParts := make([]string, len(columns))
		for i, col := range columns {
			val := fmt.Sprintf("%v", row[col])
			if len(val) > widths[i] {
				val = val[:widths[i]-3] + "..."
			}
			rowParts[i] = fmt.Sprintf("%-*s", widths[i], val)
		}
		fmt.Println(strings.Join(rowParts, "  "))
	}
}
