package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmAll bool

var rmCmd = &cobra.Command{
	Use:   "rm [id...]",
	Short: "Remove records from a store",
	Long: `Remove the records with the given identifiers, or every record with --all.

In a sync-tracked store records are marked removed and stay on disk until
'recstore purge'; otherwise they are deleted. Identifiers that match no
active record are ignored.

Examples:
  recstore rm 3
  recstore rm 3 4 5
  recstore rm --all`,
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVar(&rmAll, "all", false, "Remove every record")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !rmAll {
		ExitValidationError("specify record ids or --all", nil)
		return nil
	}
	if len(args) > 0 && rmAll {
		ExitValidationError("--all cannot be combined with record ids", nil)
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

	before := sess.ds.Len()

	targets := make([]any, len(args))
	for i, arg := range args {
		targets[i] = parseID(arg)
	}
	active := sess.ds.Remove(targets...)

	if err := sess.commit(); err != nil {
		return err
	}

	removed := before - len(active)
	if ok, err := printStructured(map[string]interface{}{
		"store":   sess.ds.Name(),
		"removed": removed,
		"active":  len(active),
	}); ok {
		return err
	}
	if !IsQuiet() {
		fmt.Printf("Removed %d record(s) from '%s' (%d active)\n", removed, sess.ds.Name(), len(active))
	}
	return nil
}
