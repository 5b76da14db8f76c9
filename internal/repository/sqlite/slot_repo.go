package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/repository"
)

// SlotRepo implements SlotRepository over the kv table.
type SlotRepo struct{ db *DB }

var _ repository.SlotRepository = (*SlotRepo)(nil)

// NewSlotRepo constructs a slot repository.
func NewSlotRepo(db *DB) *SlotRepo { return &SlotRepo{db: db} }

// Load selects the value stored under key.
func (r *SlotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv WHERE key = ?`
	var v []byte
	if err := r.db.Conn.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Save upserts the value stored under key.
func (r *SlotRepo) Save(ctx context.Context, key string, data []byte) error {
	const q = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.Conn.ExecContext(ctx, q, key, data)
	return err
}

// Delete removes key if present.
func (r *SlotRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.Conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the database.
func (r *SlotRepo) Close() error { return r.db.Close() }
