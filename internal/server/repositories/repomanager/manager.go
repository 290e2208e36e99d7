package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/audit"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/categories"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/claims"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/evidence"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/ratelimits"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/reports"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can run
// several repositories inside one transaction by handing each the same *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Categories(db dbx.DBTX) categories.Repository
	Reports(db dbx.DBTX) reports.Repository
	Claims(db dbx.DBTX) claims.Repository
	Evidence(db dbx.DBTX) evidence.Repository
	Audit(db dbx.DBTX) audit.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	RateLimits(db dbx.DBTX) ratelimits.Repository
}
