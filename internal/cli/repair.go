package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Rebuild the SQLite cache from JSONL",
	Long: `Rebuild the SQLite cache from the JSONL snapshots.

Without --store every store is rebuilt and cache entries for stores that
no longer exist on disk are dropped. With --store only that store is
rebuilt.

Examples:
  recstore repair
  recstore repair --store tasks`,
	Args: cobra.NoArgs,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	_, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	defer store.Close()

	var rebuilt []string
	if name := GetStoreName(); name != "" {
		if err := store.RebuildCache(name); err != nil {
			if exitForError(err, name) {
				return nil
			}
			return fmt.Errorf("failed to rebuild cache: %w", err)
		}
		rebuilt = []string{name}
	} else {
		rebuilt, err = store.RebuildAll()
		if err != nil {
			return fmt.Errorf("failed to rebuild cache: %w", err)
		}
	}
	if rebuilt == nil {
		rebuilt = []string{}
	}

	if ok, err := printStructured(map[string]interface{}{"rebuilt": rebuilt}); ok {
		return err
	}
	if !IsQuiet() {
		fmt.Printf("Rebuilt cache for %d store(s)\n", len(rebuilt))
		if IsVerbose() {
			for _, name := range rebuilt {
				fmt.Printf("  %s\n", name)
			}
		}
	}
	return nil
}
