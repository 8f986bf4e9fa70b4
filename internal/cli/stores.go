package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List stores",
	Long: `List every store in the data directory with its identifier field,
sync mode and active record count.

Examples:
  recstore stores
  recstore stores --json`,
	Args: cobra.NoArgs,
	RunE: runStores,
}

func init() {
	rootCmd.AddCommand(storesCmd)
}

// storeInfo is one row of the stores listing.
type storeInfo struct {
	Name     string `json:"name" yaml:"name"`
	RecordID string `json:"record_id" yaml:"record_id"`
	DataSync bool   `json:"data_sync" yaml:"data_sync"`
	Created  string `json:"created" yaml:"created"`
	Records  int    `json:"records" yaml:"records"`
}

func runStores(cmd *cobra.Command, args []string) error {
	_, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	defer store.Close()

	configs, err := store.ListStores()
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	infos := make([]storeInfo, 0, len(configs))
	for _, cfg := range configs {
		count, err := store.CountRecords(cfg.Name)
		if err != nil {
			logger.Warn("could not count records", zap.String("store", cfg.Name), zap.Error(err))
		}
		infos = append(infos, storeInfo{
			Name:     cfg.Name,
			RecordID: cfg.RecordID,
			DataSync: cfg.DataSync,
			Created:  cfg.Created.Format(time.RFC3339),
			Records:  count,
		})
	}

	if ok, err := printStructured(infos); ok {
		return err
	}

	if len(infos) == 0 {
		if !IsQuiet() {
			fmt.Println("No stores.")
		}
		return nil
	}

	columns := []string{"name", "record_id", "data_sync", "records"}
	rows := make([]map[string]interface{}, len(infos))
	for i, info := range infos {
		rows[i] = map[string]interface{}{
			"name":      info.Name,
			"record_id": info.RecordID,
			"data_sync": info.DataSync,
			"records":   info.Records,
		}
	}
	printTable(columns, rows)
	return nil
}
