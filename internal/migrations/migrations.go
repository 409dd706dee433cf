// Package migrations embeds the SQL migrations for the users and quizzes tables.
package migrations

import "embed"

// FS holds the goose migration scripts, in version order.
//
//go:embed *.sql
var FS embed.FS
