package catalog

import "embed"

// Migrations holds the goose migrations of the catalog schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations passed to goose.
const MigrationsDir = "migrations"
