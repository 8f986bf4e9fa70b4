package cli

import (
	"github.com/spf13/cobra"
)

// helpTopicsCmd is a parent command for help topics
var helpTopicsCmd = &cobra.Command{
	Use:   "help-topic",
	Short: "Extended help topics",
	Long:  `Extended help topics for recstore. Use 'recstore help-topic <topic>' to view.`,
}

var helpFiltersCmd = &cobra.Command{
	Use:   "filters",
	Short: "How filters match records",
	Long: `Filters

A filter is an object. Each key names a record field and each value is a
criterion for it. 'recstore filter' combines the per-field results with
AND by default, or with OR under --any. An empty filter matches every
active record.

CRITERIA
────────
  Plain value       The field must equal it. Numbers compare by value
                    (1 equals 1.0); strings never equal numbers; null
                    never matches.
                      {"state": "open"}

  Plain value vs    When the record field is an array, every element
  array field       must equal the value, or with --any some element.
                    An empty array never matches.
                      {"tags": "bug"}

  Object            Matches nested fields. Every key must be present
                    and match, recursively.
                      {"address": {"city": "Brno"}}

  Descriptor        {"data": [...], "matchAny": bool} checks the field
                    against a list of candidates with its own mode,
                    ignoring --any:
                    - array field, matchAny true: some candidate is an
                      element of the field
                    - array field, matchAny false: field and candidates
                      hold the same set of values
                    - other fields: the field equals some candidate
                      (matchAny true) or every candidate (false)
                      {"tags": {"data": ["bug", "docs"], "matchAny": true}}

Only an object with exactly the keys "data" (an array) and optionally
"matchAny" is a descriptor. Any other object is matched as nested fields.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(cmd.Long)
	},
}

var helpJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "JSON output format",
	Long: `JSON Output Format

Every command accepts --json (or --yaml) for machine-readable output.

RECORDS
───────
read, filter and save print an array of records exactly as stored:

  [
    {"id": 1, "title": "Write docs", "tags": ["docs"]},
    {"id": 2, "title": "Ship"}
  ]

pending adds the reserved _sync field with the record's status:

  [{"id": 3, "_sync": "removed"}]

COMMAND RESULTS
───────────────
  rm       {"store": "tasks", "removed": 2, "active": 5}
  purge    {"store": "tasks", "purged": 2}
  repair   {"rebuilt": ["tasks", "notes"]}
  stores   [{"name": "tasks", "record_id": "id", "data_sync": true, ...}]

ERRORS
──────
With --json, errors are written to stdout as:

  {"error": true, "code": "STORE_NOT_FOUND", "message": "...", "details": {...}}

Exit codes: 1 not found or conflict, 2 validation, 3 query failure.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(cmd.Long)
	},
}

func init() {
	helpTopicsCmd.AddCommand(helpFiltersCmd)
	helpTopicsCmd.AddCommand(helpJSONCmd)
	rootCmd.AddCommand(helpTopicsCmd)
}
