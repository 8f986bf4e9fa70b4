// Package cli provides the command-line interface for recstore.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global flags
var (
	jsonOutput bool
	yamlOutput bool
	storeName  string
	quiet      bool
	verbose    bool
)

// logger is rebuilt from the global flags before every command.
var logger = zap.NewNop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "recstore",
	Short: "An ordered record store with predicate filters",
	Long: `Recstore keeps named stores of free-form records, upserted by an
identifier field and queried with structured filters.

Features:
  - Upsert by id: saving a record with a known id replaces it in place
  - Filters: field equality, sequence membership, nested mappings and
    per-field any/all descriptors
  - Sync tracking: optional new/modified/removed status with logical deletes
  - Dual storage: JSONL source of truth + SQLite cache for SQL queries`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent parsing)")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "Target specific store (default: auto-detect or $RECSTORE_DEFAULT)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug output")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// setupLogger builds the process logger. Logs go to stderr as JSON at warn
// level, or debug with --verbose. $RECSTORE_LOG_LEVEL overrides both.
func setupLogger(cmd *cobra.Command, args []string) error {
	return setupLoggerAt(cmd, zapcore.WarnLevel)
}

// setupLoggerAt is setupLogger with a different default level.
func setupLoggerAt(cmd *cobra.Command, level zapcore.Level) error {
	if verbose {
		level = zapcore.DebugLevel
	}
	if env := strings.TrimSpace(os.Getenv("RECSTORE_LOG_LEVEL")); env != "" {
		parsed, err := zapcore.ParseLevel(env)
		if err != nil {
			return fmt.Errorf("invalid RECSTORE_LOG_LEVEL: %w", err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l.With(zap.String("cmd", cmd.Name()))
	return nil
}

// ExitCode is used to communicate exit codes for testing
var ExitCode int

// ExitFunc is the function called to exit the program
// Can be overridden for testing
var ExitFunc = os.Exit

// Exit sets the exit code and calls the exit function
func Exit(code int) {
	ExitCode = code
	ExitFunc(code)
}

// GetJSONOutput returns whether JSON output is enabled
func GetJSONOutput() bool {
	return jsonOutput
}

// GetYAMLOutput returns whether YAML output is enabled
func GetYAMLOutput() bool {
	return yamlOutput
}

// GetStoreName returns the target store name
func GetStoreName() string {
	return storeName
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}
