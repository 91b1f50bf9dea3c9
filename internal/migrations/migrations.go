// Package migrations holds the checkpoint store schema.
package migrations

import (
	_ "embed"

	"github.com/goran-ethernal/LogIndexor/internal/db"
)

//go:embed 001_filters.sql
var mig001 string

// Migrations returns the checkpoint store migrations in apply order.
func Migrations() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_filters.sql",
			SQL: mig001,
		},
	}
}
