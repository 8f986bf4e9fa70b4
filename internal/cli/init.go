package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/recstore/internal/context"
	"github.com/user/recstore/internal/model"
	"github.com/user/recstore/internal/storage"
)

var (
	initRecordID string
	initSync     bool
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize a new store",
	Long: `Initialize a new, empty store with the given name.

Records are upserted by their identifier field, "id" unless --record-id
names another. With --sync every record carries a sync status (new,
modified or removed) and deletes are logical until 'recstore purge'.

The store is created in the nearest .recstore directory, in $RECSTORE_DIR,
or in a new .recstore directory under the current directory.

Examples:
  recstore init tasks
  recstore init contacts --record-id email --sync`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initRecordID, "record-id", model.DefaultRecordID, "Identifier field name")
	initCmd.Flags().BoolVar(&initSync, "sync", false, "Track sync status and delete logically")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Determine base directory - use current directory
	baseDir := context.FindDataDir()
	if baseDir == "" {
		baseDir = context.DataDirName
	}

	store, err := storage.NewStore(baseDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	cfg := &model.StoreConfig{
		Name:     name,
		RecordID: initRecordID,
		DataSync: initSync,
		Created:  time.Now().UTC(),
	}

	if err := store.CreateStore(cfg); err != nil {
		if exitForError(err, name) {
			return nil
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	storeDir := filepath.Join(baseDir, name)
	if ok, err := printStructured(map[string]interface{}{
		"name":       cfg.Name,
		"record_id":  cfg.RecordID,
		"data_sync":  cfg.DataSync,
		"created_at": cfg.Created.Format(time.RFC3339),
		"path":       storeDir,
	}); ok {
		return err
	}

	if !IsQuiet() {
		fmt.Printf("Created store '%s' (record id: %s)\n", name, cfg.RecordID)
		if IsVerbose() {
			fmt.Printf("  path: %s\n", storeDir)
			fmt.Printf("  sync: %t\n", cfg.DataSync)
		}
	}
	return nil
}
