package migrations

import "embed"

// FS contains embedded SQLite migrations for center storage.
//
//go:embed *.sql
var FS embed.FS
