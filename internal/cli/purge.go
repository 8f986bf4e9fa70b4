package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Permanently delete removed records",
	Long: `Physically drop the records a sync-tracked store has marked removed.

This is irreversible. Records are removed from the JSONL snapshot and the
SQLite cache.

Examples:
  recstore purge
  recstore purge --store tasks --json`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		if exitForError(err, selectedStore()) {
			return nil
		}
		return err
	}
	defer sess.Close()

	purged := sess.ds.Purge()
	if purged > 0 {
		if err := sess.commit(); err != nil {
			return err
		}
	}

	if ok, err := printStructured(map[string]interface{}{
		"store":  sess.ds.Name(),
		"purged": purged,
	}); ok {
		return err
	}
	if !IsQuiet() {
		fmt.Printf("Purged %d record(s) from '%s'\n", purged, sess.ds.Name())
	}
	return nil
}
