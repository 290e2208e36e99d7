package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// adminFeedLimit caps the admin notification feed.
const adminFeedLimit = 50

// NotificationService derives notification feeds from the claim audit trail.
// No separate notification store exists; the audit rows are the events.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *NotificationService {
	return &NotificationService{db: db, repomanager: m, config: cfg}
}

// AdminFeed returns recent workflow events across all claims, newest first.
func (s *NotificationService) AdminFeed(ctx context.Context, since time.Time) ([]*models.ClaimAuditEntry, error) {
	entries, err := s.repomanager.Audit(s.db).Recent(ctx, since, adminFeedLimit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return entries, nil
}

// ClaimantFeed returns workflow events since the given time on claims filed
// by the account.
func (s *NotificationService) ClaimantFeed(ctx context.Context, userID int64, since time.Time) ([]*models.ClaimAuditEntry, error) {
	claims, err := s.repomanager.Claims(s.db).ListByClaimant(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if len(claims) == 0 {
		return []*models.ClaimAuditEntry{}, nil
	}
	ids := make([]int64, 0, len(claims))
	for _, c := range claims {
		ids = append(ids, c.ID)
	}
	entries, err := s.repomanager.Audit(s.db).ListByClaimsSince(ctx, ids, since)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return entries, nil
}
