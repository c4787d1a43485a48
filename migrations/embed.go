package migrations

import "embed"

// FS embeds the SQL migration files into the binary so the server runs
// standalone without an external migrations directory.
//
//go:embed *.sql
var FS embed.FS
