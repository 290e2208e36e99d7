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

// InMemoryRepositoryManager vends the in-memory repositories for tests. State
// lives in the manager, so every getter returns the same repository instance
// regardless of the DBTX handed in.
type InMemoryRepositoryManager struct {
	UsersRepo         *users.InMemoryRepository
	RefreshTokensRepo *refreshtokens.InMemoryRepository
	CategoriesRepo    *categories.InMemoryRepository
	ReportsRepo       *reports.InMemoryRepository
	ClaimsRepo        *claims.InMemoryRepository
	EvidenceRepo      *evidence.InMemoryRepository
	AuditRepo         *audit.InMemoryRepository
	SecretsRepo       *secrets.InMemoryRepository
	RateLimitsRepo    *ratelimits.InMemoryRepository
}

// NewInMemoryRepositoryManager constructs a manager with fresh empty state.
func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		UsersRepo:         users.NewInMemoryRepository(),
		RefreshTokensRepo: refreshtokens.NewInMemoryRepository(),
		CategoriesRepo:    categories.NewInMemoryRepository(),
		ReportsRepo:       reports.NewInMemoryRepository(),
		ClaimsRepo:        claims.NewInMemoryRepository(),
		EvidenceRepo:      evidence.NewInMemoryRepository(),
		AuditRepo:         audit.NewInMemoryRepository(),
		SecretsRepo:       secrets.NewInMemoryRepository(),
		RateLimitsRepo:    ratelimits.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.UsersRepo }

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.RefreshTokensRepo
}

func (m *InMemoryRepositoryManager) Categories(dbx.DBTX) categories.Repository {
	return m.CategoriesRepo
}

func (m *InMemoryRepositoryManager) Reports(dbx.DBTX) reports.Repository { return m.ReportsRepo }

func (m *InMemoryRepositoryManager) Claims(dbx.DBTX) claims.Repository { return m.ClaimsRepo }

func (m *InMemoryRepositoryManager) Evidence(dbx.DBTX) evidence.Repository { return m.EvidenceRepo }

func (m *InMemoryRepositoryManager) Audit(dbx.DBTX) audit.Repository { return m.AuditRepo }

func (m *InMemoryRepositoryManager) Secrets(dbx.DBTX) secrets.Repository { return m.SecretsRepo }

func (m *InMemoryRepositoryManager) RateLimits(dbx.DBTX) ratelimits.Repository {
	return m.RateLimitsRepo
}
