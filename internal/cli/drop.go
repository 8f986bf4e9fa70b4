package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var dropYes bool

var dropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Delete a store and all its data",
	Long: `Permanently delete a store and all its data.

This operation is destructive and cannot be undone.
All records and configuration will be removed.

By default, you will be prompted for confirmation.
Use --yes to skip the confirmation prompt.

Examples:
  recstore drop tasks
  recstore drop tasks --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVar(&dropYes, "yes", false, "Skip confirmation prompt")
	rootCmd.AddCommand(dropCmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
	name := args[0]

	_, store, err := openStorage()
	if err != nil {
		if exitForError(err, name) {
			return nil
		}
		return err
	}
	defer store.Close()

	cfg, err := store.GetConfig(name)
	if err != nil {
		if exitForError(err, name) {
			return nil
		}
		return fmt.Errorf("failed to get store: %w", err)
	}

	// Confirm deletion unless --yes is specified
	if !dropYes {
		fmt.Printf("Are you sure you want to delete store '%s'? This cannot be undone. [y/N] ", name)
		reader := bufio.NewReader(cmd.InOrStdin())
		response, err := reader.ReadString('\n')
		if err != nil && response == "" {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	count, _ := store.CountRecords(name)
	if err := store.DropStore(name); err != nil {
		if exitForError(err, name) {
			return nil
		}
		return fmt.Errorf("failed to drop store: %w", err)
	}

	if ok, err := printStructured(map[string]interface{}{
		"dropped": cfg.Name,
		"records": count,
	}); ok {
		return err
	}
	if !IsQuiet() {
		fmt.Printf("Dropped store '%s' (%d record(s) deleted)\n", name, count)
	}
	return nil
}
