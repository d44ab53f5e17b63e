package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carbontrack/internal/dbx"
	"github.com/dmitrijs2005/carbontrack/internal/server/repositories/leaderboard"
	"github.com/dmitrijs2005/carbontrack/internal/server/repositories/records"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	Leaderboard(db dbx.DBTX) leaderboard.Repository
}
