// Package db embeds the SQL migrations so the binary can run them
// without access to the source tree.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
