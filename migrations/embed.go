// Package migrations embeds the service's SQL schema.
package migrations

import "embed"

// FS holds the *.up.sql files applied at startup by database.RunMigrations.
//
//go:embed *.sql
var FS embed.FS
