package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/user/recstore/internal/context"
	"github.com/user/recstore/internal/model"
)

// Error codes for structured error responses
const (
	ErrCodeStoreNotFound = "STORE_NOT_FOUND"
	ErrCodeNoDataDir     = "NO_DATA_DIR"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInvalidSQL    = "INVALID_SQL"
	ErrCodeQueryFailed   = "QUERY_FAILED"
)

// Exit codes
const (
	exitNotFound   = 1
	exitValidation = 2
	exitQuery      = 3
)

// JSONError represents a structured error response for --json output
type JSONError struct {
	Error   bool                   `json:"error"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ExitWithError outputs an error message and exits.
// If --json flag is set, outputs structured JSON error to stdout.
// Otherwise outputs plain text to stderr.
func ExitWithError(code int, errCode, message string, details map[string]interface{}) {
	if GetJSONOutput() {
		errResp := JSONError{
			Error:   true,
			Code:    errCode,
			Message: message,
			Details: details,
		}
		data, _ := json.Marshal(errResp)
		fmt.Println(string(data))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", message)
	}
	Exit(code)
}

// ExitStoreNotFound outputs a store not found error
func ExitStoreNotFound(name string) {
	ExitWithError(exitNotFound, ErrCodeStoreNotFound,
		fmt.Sprintf("store '%s' not found", name),
		map[string]interface{}{"store": name})
}

// ExitValidationError outputs a validation error
func ExitValidationError(message string, details map[string]interface{}) {
	ExitWithError(exitValidation, ErrCodeValidation, message, details)
}

// ExitNoDataDir outputs an error when no data directory is found
func ExitNoDataDir() {
	ExitWithError(exitNotFound, ErrCodeNoDataDir, context.ErrNoDataDir.Error(), nil)
}

// ExitInvalidSQL outputs an error for a rejected SQL statement
func ExitInvalidSQL(message string, query string) {
	ExitWithError(exitValidation, ErrCodeInvalidSQL, message,
		map[string]interface{}{"query": query})
}

// exitForError maps known errors to a structured exit. It returns false for
// errors it does not recognise, which the caller should return to cobra.
func exitForError(err error, store string) bool {
	switch {
	case errors.Is(err, context.ErrNoDataDir):
		ExitNoDataDir()
	case errors.Is(err, context.ErrNoStore):
		ExitValidationError(err.Error(), nil)
	case errors.Is(err, model.ErrStoreNotFound):
		ExitStoreNotFound(store)
	case errors.Is(err, model.ErrStoreExists):
		ExitWithError(exitNotFound, ErrCodeConflict,
			fmt.Sprintf("store '%s' already exists", store),
			map[string]interface{}{"store": store})
	case errors.Is(err, model.ErrInvalidStoreName),
		errors.Is(err, model.ErrInvalidRecordID),
		errors.Is(err, model.ErrReservedField),
		errors.Is(err, model.ErrInvalidRecord),
		errors.Is(err, model.ErrInvalidFilter):
		ExitValidationError(err.Error(), nil)
	default:
		return false
	}
	return true
}
