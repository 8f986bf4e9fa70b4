package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/user/recstore/internal/daemon"
)

// stopTimeout bounds how long 'watch stop' waits for the watcher to exit.
const stopTimeout = 5 * time.Second

// watchCmd runs the cache watcher in the foreground.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the SQLite cache in sync with JSONL files",
	Long: `Watch the data directory and rebuild a store's SQLite cache whenever its
records.jsonl or config.json changes, for example after a manual edit or a
git checkout. Runs in the foreground until interrupted.

Only one watcher can run per data directory.

Examples:
  recstore watch
  recstore watch status
  recstore watch stop`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if IsQuiet() {
			level = zapcore.WarnLevel
		}
		return setupLoggerAt(cmd, level)
	},
	RunE: runWatch,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher status",
	Args:  cobra.NoArgs,
	RunE:  runWatchStatus,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running watcher",
	Long:  `Stop the watcher for this data directory. No error if none is running.`,
	Args:  cobra.NoArgs,
	RunE:  runWatchStop,
}

func init() {
	watchCmd.AddCommand(watchStatusCmd)
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(watchCmd)
}

// watchContext is the context Run uses; tests replace it to stop the loop.
var watchContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	defer store.Close()

	// Start from a consistent cache before following changes.
	if _, err := store.RebuildAll(); err != nil {
		return fmt.Errorf("failed to rebuild cache: %w", err)
	}

	proc := daemon.NewProcess(ctx.DataDir, store, logger)

	runCtx, cancel := watchContext()
	defer cancel()

	if err := proc.Run(runCtx); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			ExitWithError(exitValidation, ErrCodeConflict, err.Error(),
				map[string]interface{}{"dir": ctx.DataDir})
			return nil
		}
		return err
	}
	return nil
}

func runWatchStatus(cmd *cobra.Command, args []string) error {
	ctx, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	store.Close()

	status, err := daemon.NewFiles(ctx.DataDir).GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get watcher status: %w", err)
	}

	if ok, err := printStructured(status); ok {
		return err
	}

	if !status.Running {
		fmt.Println("Watcher: not running")
		return nil
	}
	fmt.Printf("Watcher: running (pid %d)\n", status.PID)
	fmt.Printf("  uptime:  %s\n", (time.Duration(status.UptimeSeconds) * time.Second).String())
	fmt.Printf("  stores:  %d\n", status.StoresWatched)
	fmt.Printf("  rebuilds: %d\n", status.Rebuilds)
	if !status.LastSync.IsZero() {
		fmt.Printf("  last sync: %s\n", status.LastSync.Format(time.RFC3339))
	}
	return nil
}

func runWatchStop(cmd *cobra.Command, args []string) error {
	ctx, store, err := openStorage()
	if err != nil {
		if exitForError(err, "") {
			return nil
		}
		return err
	}
	store.Close()

	if err := daemon.NewFiles(ctx.DataDir).Stop(stopTimeout); err != nil {
		return err
	}
	if !IsQuiet() && !GetJSONOutput() {
		fmt.Println("Watcher stopped")
	}
	return nil
}
