// Package repomanager wires together repository constructors so services can
// obtain repositories bound to either a plain connection or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the provided DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
