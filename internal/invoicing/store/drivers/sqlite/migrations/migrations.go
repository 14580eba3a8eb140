// Package migrations embeds the sqlite schema migration files into the
// binary so deployments never need the files on disk.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
