package db

import "embed"

// migrationsFS holds the goose SQL migrations applied on startup.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
