package cli

import (
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read records from a store",
	Long: `Print the store's active records, or only the records whose identifier
equals id.

Numeric and boolean ids are matched as numbers and booleans; quote the id
to match it as a string.

Examples:
  recstore read
  recstore read 42
  recstore read '"42"' --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		if exitForError(err, selectedStore()) {
			return nil
		}
		return err
	}
	defer sess.Close()

	var id any
	if len(args) == 1 {
		id = parseID(args[0])
	}

	return printRecords(sess.ds.Read(id), sess.ds.RecordID())
}
