package migrations

import "embed"

// FS contains embedded SQLite migrations for the CMS cache.
//
//go:embed *.sql
var FS embed.FS
