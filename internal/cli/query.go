package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a raw SQL query against the cache",
	Long: `Execute a SELECT query against the SQLite cache.

Only SELECT statements are allowed. Every store's records live in the
records table, one row per record in store order:

  records(store_name, position, record_key, sync_status, hash, data)

data holds the record as JSON, so SQLite's json_extract reaches any field.
Store configurations are in _store_meta.

Examples:
  recstore query "SELECT record_key, json_extract(data, '$.title') FROM records WHERE store_name = 'tasks'"
  recstore query "SELECT store_name, COUNT(*) FROM records GROUP BY store_name"
  recstore query "SELECT * FROM records WHERE sync_status = 'new'" --json

Note: This queries the SQLite cache, not the JSONL source. After manual
JSONL edits run 'recstore repair', or keep 'recstore watch' running.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

// isSelectQuery checks if the query is a SELECT statement (read-only).
func isSelectQuery(query string) bool {
	// Normalize query: trim whitespace and convert to uppercase for checking
	normalized := strings.TrimSpace(strings.ToUpper(query))

	if !strings.HasPrefix(normalized, "SELECT") && !strings.HasPrefix(normalized, "WITH") {
		return false
	}

	// Reject queries that contain modification keywords, even in subqueries
	dangerousKeywords := []string{
		"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE",
		"TRUNCATE", "REPLACE", "ATTACH", "DETACH", "PRAGMA", "VACUUM",
	}

	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !(r == '_' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	for _, field := range fields {
		for _, keyword := range dangerousKeywords {
			if field == keyword {
				return false
			}
		}
	}

	return true
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := args[0]

	if !isSelectQuery(query) {
		ExitInvalidSQL("only SELECT queries are allowed", query)
		return nil
	}

	_, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	defer store.Close()

	rows, columns, err := store.RawQuery(query)
	if err != nil {
		ExitWithError(exitQuery, ErrCodeQueryFailed, fmt.Sprintf("query failed: %v", err),
			map[string]interface{}{"query": query})
		return nil
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}

	if ok, err := printStructured(rows); ok {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No results.")
		return nil
	}

	printTable(columns, rows)
	fmt.Printf("\n%d row(s)\n", len(rows))

	return nil
}
