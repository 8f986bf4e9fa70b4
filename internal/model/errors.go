// Package model provides core data types for recstore.
package model

import "errors"

// Error types for recstore operations
var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrStoreExists      = errors.New("store already exists")
	ErrInvalidStoreName = errors.New("invalid store name")
	ErrInvalidRecordID  = errors.New("invalid record id field")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrReservedField    = errors.New("reserved field name")
)
