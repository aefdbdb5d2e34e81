// Package migrations содержит SQL-миграции goose для каждого поддерживаемого диалекта.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
