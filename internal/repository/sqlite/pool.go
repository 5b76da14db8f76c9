// Package sqlite contains the SQLite implementation of the slot repository.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/and161185/syncads/internal/migrate"
)

// DB wraps *sql.DB to satisfy repository constructors and allow testing.
type DB struct{ Conn *sql.DB }

// Open opens the database at dsn, enables WAL and applies migrations.
func Open(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between them.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// non-fatal: in-memory databases reject WAL
	_, _ = conn.ExecContext(ctx, `PRAGMA journal_mode=WAL;`)

	if err := migrate.Up(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Conn: conn}, nil
}

// Close closes the underlying database.
func (db *DB) Close() error { return db.Conn.Close() }
