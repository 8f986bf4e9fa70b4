package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/recstore/internal/filter"
	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/value"
)

var filterAny bool

var filterCmd = &cobra.Command{
	Use:   "filter [spec|-]",
	Short: "Filter records by field values",
	Long: `Print the active records matching a filter, given as a JSON or YAML
object in the argument or on stdin.

Each filter field is matched against the record field of the same name:
  - a plain value must equal the field, or, when the field is an array,
    every element (or with --any some element)
  - an object matches nested fields, every key must match
  - {"data": [...], "matchAny": true|false} matches the field against a
    list of candidates, with its own any/all mode

By default every filter field must match; with --any one is enough.

Examples:
  recstore filter '{"state": "open"}'
  recstore filter '{"state": "open", "owner": "ana"}' --any
  recstore filter '{"tags": {"data": ["bug", "docs"], "matchAny": true}}'
  recstore filter '{"address": {"city": "Brno"}}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().BoolVar(&filterAny, "any", false, "Match records where any filter field matches")
	rootCmd.AddCommand(filterCmd)
}

// parseFilter decodes a filter spec from JSON or YAML.
func parseFilter(data []byte) (filter.Spec, error) {
	if looksLikeJSON(data) {
		return filter.Parse(data)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFilter, err)
	}
	if value.Of(doc) != value.Mapping {
		return nil, fmt.Errorf("%w: expected an object", model.ErrInvalidFilter)
	}
	return filter.Spec(value.Fields(doc)), nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	spec, err := parseFilter(data)
	if err != nil {
		ExitValidationError(err.Error(), nil)
		return nil
	}

	sess, err := openSession()
	if err != nil {
		if exitForError(err, selectedStore()) {
			return nil
		}
		return err
	}
	defer sess.Close()

	return printRecords(sess.ds.Filter(spec, filterAny), sess.ds.RecordID())
}
