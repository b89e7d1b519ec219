// Package migrations embeds the results schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
