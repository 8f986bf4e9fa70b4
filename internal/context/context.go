// Package context resolves the data directory and selected store for CLI
// commands from flags, the environment and the working directory.
package context

import "errors"

// Context holds the resolved runtime context for recstore CLI commands.
type Context struct {
	DataDir string // Path to the data directory (may be empty)
	Store   string // Default or selected store name (may be empty)
}

// ErrNoDataDir is returned when no data directory is found
var ErrNoDataDir = errors.New("no .recstore directory found (run 'recstore init' or set RECSTORE_DIR)")

// ErrNoStore is returned when no store is selected and none can be auto-detected
var ErrNoStore = errors.New("no store specified and multiple stores exist (use --store)")

// Resolve builds context from the --store flag and the environment.
func Resolve(storeFlag string) (*Context, error) {
	ctx := &Context{
		DataDir: FindDataDir(),
	}

	if storeFlag != "" {
		ctx.Store = storeFlag
	} else {
		ctx.Store = DefaultStore(ctx.DataDir)
	}

	return ctx, nil
}

// ResolveRequired is like Resolve but returns an error if:
// - No data directory is found
// - No store can be determined (multiple stores exist without --store flag)
func ResolveRequired(storeFlag string) (*Context, error) {
	ctx, err := Resolve(storeFlag)
	if err != nil {
		return nil, err
	}

	if ctx.DataDir == "" {
		return nil, ErrNoDataDir
	}

	if ctx.Store == "" {
		return nil, ErrNoStore
	}

	return ctx, nil
}
