// Package migrations embeds the goose SQL migrations for the audit store.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds every *.sql migration in version order.
//
//go:embed *.sql
var FS embed.FS

// NewProvider returns a goose provider over FS for a Postgres database.
// The caller owns db.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, FS)
	if err != nil {
		return nil, fmt.Errorf("goose new provider: %w", err)
	}
	return p, nil
}
