// Package repository defines storage interfaces implemented by concrete backends.
package repository

import "context"

// SlotRepository is a client-side key-value slot: one serialized document per
// namespace key. Implementations must be safe for concurrent use.
type SlotRepository interface {
	// Load returns the document stored under key, or errs.ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}
