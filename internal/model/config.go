package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultRecordID is the identifier field used when a store does not name one.
const DefaultRecordID = "id"

// Store name validation:
// - Must start with a letter
// - Can contain letters, numbers, hyphens, underscores
// - Max 64 characters
var storeNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,63}$`)

// StoreConfig describes a named record store.
type StoreConfig struct {
	Name     string    `json:"name"`
	RecordID string    `json:"record_id"`
	DataSync bool      `json:"data_sync"`
	Created  time.Time `json:"created"`
}

// WithDefaults returns a copy of c with unset fields defaulted.
func (c StoreConfig) WithDefaults() StoreConfig {
	if c.RecordID == "" {
		c.RecordID = DefaultRecordID
	}
	return c
}

// Validate checks the store name and identifier field.
func (c StoreConfig) Validate() error {
	if err := ValidateStoreName(c.Name); err != nil {
		return err
	}
	return ValidateRecordID(c.RecordID)
}

// ValidateStoreName checks if a store name is valid.
// Returns nil if valid, or an error with details.
func ValidateStoreName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: store name cannot be empty", ErrInvalidStoreName)
	}

	if !storeNameRegex.MatchString(name) {
		return fmt.Errorf("%w: must start with a letter and contain only letters, numbers, hyphens, and underscores", ErrInvalidStoreName)
	}

	return nil
}

// ValidateRecordID checks the name of an identifier field. An empty name is
// accepted and means DefaultRecordID.
func ValidateRecordID(field string) error {
	if field == "" {
		return nil
	}
	if strings.TrimSpace(field) != field {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidRecordID, field)
	}
	if field == SyncKey {
		return fmt.Errorf("%w: %q", ErrReservedField, field)
	}
	return nil
}
