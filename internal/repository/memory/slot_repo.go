// Package memory is a process-local slot used for memory-only sessions and tests.
package memory

import (
	"context"
	"sync"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/repository"
)

// SlotRepo is a map guarded by a mutex.
type SlotRepo struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repository.SlotRepository = (*SlotRepo)(nil)

// NewSlotRepo returns an empty slot.
func NewSlotRepo() *SlotRepo { return &SlotRepo{data: map[string][]byte{}} }

// Load returns a copy of the value under key.
func (r *SlotRepo) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of data under key.
func (r *SlotRepo) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (r *SlotRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

// Close is a no-op.
func (r *SlotRepo) Close() error { return nil }
