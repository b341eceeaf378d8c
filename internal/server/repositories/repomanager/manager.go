package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/legacykeeper/internal/dbx"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/entries"
	"github.com/dmitrijs2005/legacykeeper/internal/server/repositories/heirs"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can use the same repository either directly against the pool or
// inside a transaction.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	Entries(db dbx.DBTX) entries.Repository
	Heirs(db dbx.DBTX) heirs.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
