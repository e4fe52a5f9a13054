package migrations

import "embed"

// FS contains the embedded guest store migrations.
//
//go:embed *.sql
var FS embed.FS
