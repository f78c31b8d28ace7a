// Package db ships the SQL schema migrations with the binary.
package db

import "embed"

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"

// Migrations holds the goose migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
