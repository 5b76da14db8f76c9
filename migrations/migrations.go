// Package migrations embeds SQL migrations of the SQLite slot backend.
package migrations

import "embed"

// FS holds goose migration files.
//
//go:embed *.sql
var FS embed.FS
