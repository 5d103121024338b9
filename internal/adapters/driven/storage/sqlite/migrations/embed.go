// Package migrations embeds the index schema migrations for the
// SQLite store.
package migrations

import "embed"

// FS holds the numbered up/down migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
