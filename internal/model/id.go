package model

import "github.com/google/uuid"

// NewRecordID returns a random identifier for a record saved without one.
func NewRecordID() string {
	return uuid.NewString()
}
