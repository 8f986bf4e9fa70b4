package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveReset bool

var saveCmd = &cobra.Command{
	Use:   "save [records|-]",
	Short: "Save records into a store",
	Long: `Save one record (an object) or several (an array of objects), given as
JSON or YAML in the argument or on stdin.

A record whose identifier matches an existing record replaces it in place;
any other record is appended. With --reset the store's previous contents
are discarded first. In a sync-tracked store records saved without an
identifier are given a generated UUID.

Prints the store's active records after the save.

Examples:
  recstore save '{"id": 1, "title": "Write docs", "tags": ["docs"]}'
  recstore save '[{"id": 1, "done": true}, {"id": 2, "title": "Ship"}]'
  recstore save --reset < tasks.json
  cat tasks.yaml | recstore save -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().BoolVar(&saveReset, "reset", false, "Discard existing records first")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	records, err := parseRecords(data)
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

	active := sess.ds.Save(records, saveReset)
	if err := sess.commit(); err != nil {
		return err
	}

	if ok, err := printStructured(active); ok {
		return err
	}
	if !IsQuiet() {
		fmt.Printf("Saved %d record(s) to '%s' (%d active)\n", len(records), sess.ds.Name(), len(active))
	}
	return nil
}
