package utils

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7; ids from one process sort in creation order.
func NewID() string { return uuid.Must(uuid.NewV7()).String() }
