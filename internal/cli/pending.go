package cli

import (
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List records awaiting sync",
	Long: `Print every record that carries a sync status (new, modified or removed),
including logically removed records, in store order. The status is shown
in the _sync field.

Only sync-tracked stores have pending records.

Examples:
  recstore pending
  recstore pending --json`,
	Args: cobra.NoArgs,
	RunE: runPending,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func runPending(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		if exitForError(err, selectedStore()) {
			return nil
		}
		return err
	}
	defer sess.Close()

	pending := sess.ds.Pending()
	records := make([]map[string]any, len(pending))
	for i := range pending {
		records[i] = recordMap(&pending[i])
	}

	return printRecords(records, sess.ds.RecordID())
}
