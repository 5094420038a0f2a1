// Package db carries the embedded SQL migrations so both the migrate
// command and server startup can apply them without a working directory
// dependency.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
