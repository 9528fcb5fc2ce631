package common

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// Validate checks if the ID is a valid UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Ascending reports whether the order is ascending.  Anything other than
// "desc" is treated as ascending.
func (o SortOrder) Ascending() bool {
	return o != SortDesc
}

// ContextKey is the type for request-scoped context values.
type ContextKey string

// ContextKeyRequestID carries the inbound request ID.
const ContextKeyRequestID ContextKey = "request_id"

//Personal.AI order the ending
