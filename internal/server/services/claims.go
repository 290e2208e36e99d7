package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// Actor identifies who performs a workflow action, for the audit trail.
// Identity is the admin email for cookie sessions or the account email for
// role-based admins; UserID is set when the actor has an account row.
type Actor struct {
	UserID   *int64
	Identity string
}

// CreateClaimInput carries everything needed to submit a claim.
type CreateClaimInput struct {
	ReportID        int64
	ClaimantName    string
	ItemDescription string
	EvidenceURLs    []string
	ClaimantUserID  *int64
}

// ClaimService implements the claim lifecycle: submission, accept/reject,
// the identity challenge track, and release against the handover token.
type ClaimService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewClaimService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ClaimService {
	return &ClaimService{db: db, repomanager: m, config: cfg}
}

// minDescriptionLen is the shortest acceptable item description on a claim.
const minDescriptionLen = 5

// rateLimitKey identifies a claimant for quota purposes. Keyed on the
// account id, never on caller-supplied text, so the quota cannot be dodged
// by varying the name.
func rateLimitKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// trustScore derives a heuristic confidence score for a new claim from its
// evidence volume and the claimant's account age. Capped at 100.
func trustScore(evidenceCount int, accountCreatedAt *time.Time) int {
	score := 40
	if evidenceCount >= 1 {
		score += 30
	}
	if evidenceCount >= 3 {
		score += 10
	}
	if accountCreatedAt != nil {
		age := time.Since(*accountCreatedAt)
		if age > 365*24*time.Hour {
			score += 10
		} else if age > 30*24*time.Hour {
			score += 5
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// alreadySettled reports whether the claim has passed accept. A retry of
// accept must not mint a second token, and a settled claim cannot be
// rejected. challenge_verified does not count: verification runs on a
// parallel track and accept is still ahead of it.
func alreadySettled(c *models.Claim) bool {
	return c.ClaimStatus == models.ClaimStatusAccepted || c.ClaimStatus == models.ClaimStatusReleased
}

func marshalDetails(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Create submits a new claim against a report. Requires a signed-in
// claimant, at least one evidence URL and a usable description. The quota is
// checked before anything else; the report row is then locked for the
// duration of the transaction, so two concurrent submissions against the
// same report serialize and the loser sees the committed-claim check fail.
func (s *ClaimService) Create(ctx context.Context, input *CreateClaimInput) (*models.Claim, error) {

	if input.ClaimantUserID == nil {
		return nil, common.ErrorUnauthorized
	}
	if len(input.EvidenceURLs) == 0 || len(input.ItemDescription) < minDescriptionLen {
		return nil, common.ErrorInvalidPayload
	}

	allowed, err := s.repomanager.RateLimits(s.db).Bump(ctx, rateLimitKey(*input.ClaimantUserID), s.config.RateLimitWindow, s.config.RateLimitMax)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !allowed {
		return nil, common.ErrRateLimited
	}

	var accountCreatedAt *time.Time
	user, err := s.repomanager.Users(s.db).GetByID(ctx, *input.ClaimantUserID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}
	if user != nil {
		accountCreatedAt = &user.CreatedAt
	}

	var claim *models.Claim

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		reportRepo := s.repomanager.Reports(tx)
		claimRepo := s.repomanager.Claims(tx)

		report, err := reportRepo.GetForUpdate(ctx, input.ReportID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrReportNotFound
			}
			return err
		}

		committed, err := claimRepo.HasCommitted(ctx, report.ID)
		if err != nil {
			return err
		}
		if committed {
			return common.ErrAlreadyClaimed
		}

		claim, err = claimRepo.Create(ctx, &models.Claim{
			ReportID:        report.ID,
			ClaimantName:    input.ClaimantName,
			ItemDescription: input.ItemDescription,
			ClaimStatus:     models.ClaimStatusPending,
			ClaimantUserID:  input.ClaimantUserID,
			TrustScore:      trustScore(len(input.EvidenceURLs), accountCreatedAt),
		})
		if err != nil {
			return err
		}

		if len(input.EvidenceURLs) > 0 {
			if err := s.repomanager.Evidence(tx).CreateBatch(ctx, claim.ID, input.EvidenceURLs, models.EvidenceKindPhoto); err != nil {
				return err
			}
		}

		if err := s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: input.ClaimantUserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionCreateClaim,
			Details:     marshalDetails(map[string]any{"claimantName": input.ClaimantName}),
		}); err != nil {
			return err
		}

		return reportRepo.UpdateStatus(ctx, report.ID, models.ItemStatusPending)
	})

	if err != nil {
		if errors.Is(err, common.ErrReportNotFound) || errors.Is(err, common.ErrAlreadyClaimed) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return claim, nil
}

// Accept approves a claim and mints the handover token. Only the SHA-256 hash
// of the token is stored; the plaintext is returned exactly once, in the
// response to this call. Accepting an already-committed claim is rejected, so
// retries cannot mint a second live token.
func (s *ClaimService) Accept(ctx context.Context, claimID int64, actor *Actor) (string, error) {

	var token string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimRepo := s.repomanager.Claims(tx)

		claim, err := claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		if alreadySettled(claim) {
			return common.ErrClaimCommitted
		}

		token, err = auth.MintHandoverToken(claim.ID)
		if err != nil {
			return err
		}
		hash := auth.HashHandoverToken(token)

		secretRepo := s.repomanager.Secrets(tx)
		if err := secretRepo.Supersede(ctx, claim.ID, models.SecretKindHandover); err != nil {
			return err
		}
		if err := secretRepo.Create(ctx, &models.ClaimSecret{
			ClaimID: claim.ID,
			Kind:    models.SecretKindHandover,
			Value:   hash,
		}); err != nil {
			return err
		}

		if err := claimRepo.UpdateStatus(ctx, claim.ID, models.ClaimStatusAccepted); err != nil {
			return err
		}
		if err := s.repomanager.Reports(tx).UpdateStatus(ctx, claim.ReportID, models.ItemStatusClaimed); err != nil {
			return err
		}

		return s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: actor.UserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionAccept,
			Details:     marshalDetails(map[string]any{"by": actor.Identity, "handoverTokenHash": hash}),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrClaimCommitted) {
			return "", err
		}
		return "", common.ErrorInternal
	}

	return token, nil
}

// Reject marks a claim rejected. The report keeps its current status, so
// other claimants may still come forward.
func (s *ClaimService) Reject(ctx context.Context, claimID int64, reason string, actor *Actor) error {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimRepo := s.repomanager.Claims(tx)

		claim, err := claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		if alreadySettled(claim) {
			return common.ErrClaimCommitted
		}

		if err := claimRepo.UpdateStatus(ctx, claim.ID, models.ClaimStatusRejected); err != nil {
			return err
		}

		return s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: actor.UserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionReject,
			Details:     marshalDetails(map[string]any{"by": actor.Identity, "reason": reason}),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrClaimCommitted) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// RequestChallenge issues a fresh 6-digit identity challenge code for a
// claim. Re-requesting supersedes any outstanding code, so only the newest
// one can verify. The code is returned to the admin for out-of-band delivery.
func (s *ClaimService) RequestChallenge(ctx context.Context, claimID int64, actor *Actor) (string, error) {

	var code string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimRepo := s.repomanager.Claims(tx)

		claim, err := claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		code, err = auth.GenerateChallengeCode()
		if err != nil {
			return err
		}

		secretRepo := s.repomanager.Secrets(tx)
		if err := secretRepo.Supersede(ctx, claim.ID, models.SecretKindChallenge); err != nil {
			return err
		}
		if err := secretRepo.Create(ctx, &models.ClaimSecret{
			ClaimID: claim.ID,
			Kind:    models.SecretKindChallenge,
			Value:   code,
		}); err != nil {
			return err
		}

		if err := claimRepo.UpdateStatus(ctx, claim.ID, models.ClaimStatusChallengeRequested); err != nil {
			return err
		}

		return s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: actor.UserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionRequestChallenge,
			Details:     marshalDetails(map[string]any{"by": actor.Identity, "code": code}),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return "", common.ErrorInternal
	}

	return code, nil
}

// VerifyChallenge checks a submitted code against the latest outstanding
// challenge for the claim and consumes it on success. imageURL optionally
// records a verification photo in the audit trail.
func (s *ClaimService) VerifyChallenge(ctx context.Context, claimID int64, code string, imageURL string, actor *Actor) error {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimRepo := s.repomanager.Claims(tx)
		secretRepo := s.repomanager.Secrets(tx)

		claim, err := claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		secret, err := secretRepo.LatestUnconsumed(ctx, claim.ID, models.SecretKindChallenge)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNoChallenge
			}
			return err
		}

		if subtle.ConstantTimeCompare([]byte(secret.Value), []byte(code)) != 1 {
			return common.ErrInvalidCode
		}

		if err := secretRepo.Consume(ctx, secret.ID); err != nil {
			return err
		}

		if err := claimRepo.UpdateStatus(ctx, claim.ID, models.ClaimStatusChallengeVerified); err != nil {
			return err
		}

		details := map[string]any{"by": actor.Identity}
		if imageURL != "" {
			details["imageUrl"] = imageURL
		}
		return s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: actor.UserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionVerifyChallenge,
			Details:     marshalDetails(details),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrNoChallenge) || errors.Is(err, common.ErrInvalidCode) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// Release completes the handover: the presented token must hash to the live
// handover secret minted at accept time. The secret is consumed on success,
// so a token redeems exactly once. When RequireChallengeVerified is set, a
// verified challenge must also be on record.
func (s *ClaimService) Release(ctx context.Context, claimID int64, token string, actor *Actor) error {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		claimRepo := s.repomanager.Claims(tx)
		secretRepo := s.repomanager.Secrets(tx)

		claim, err := claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}

		if s.config.RequireChallengeVerified {
			verified, err := s.hasVerifiedChallenge(ctx, tx, claim.ID)
			if err != nil {
				return err
			}
			if !verified {
				return common.ErrNotVerified
			}
		}

		secret, err := secretRepo.LatestUnconsumed(ctx, claim.ID, models.SecretKindHandover)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNoAcceptRecord
			}
			return err
		}

		hash := auth.HashHandoverToken(token)
		if subtle.ConstantTimeCompare([]byte(secret.Value), []byte(hash)) != 1 {
			return common.ErrInvalidToken
		}

		if err := secretRepo.Consume(ctx, secret.ID); err != nil {
			return err
		}

		if err := claimRepo.UpdateStatus(ctx, claim.ID, models.ClaimStatusReleased); err != nil {
			return err
		}
		if err := s.repomanager.Reports(tx).UpdateStatus(ctx, claim.ReportID, models.ItemStatusReleased); err != nil {
			return err
		}

		return s.repomanager.Audit(tx).AppendClaim(ctx, &models.ClaimAuditEntry{
			ActorUserID: actor.UserID,
			ClaimID:     claim.ID,
			Action:      models.AuditActionRelease,
			Details:     marshalDetails(map[string]any{"by": actor.Identity}),
		})
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrNoAcceptRecord) ||
			errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrNotVerified) {
			return err
		}
		return common.ErrorInternal
	}
	return nil
}

// hasVerifiedChallenge checks the audit trail for a verify_challenge entry.
// The claim status alone is not enough: a later accept overwrites it.
func (s *ClaimService) hasVerifiedChallenge(ctx context.Context, db dbx.DBTX, claimID int64) (bool, error) {
	entries, err := s.repomanager.Audit(db).ListByClaim(ctx, claimID, 0)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Action == models.AuditActionVerifyChallenge {
			return true, nil
		}
	}
	return false, nil
}

// Get returns a claim with its evidence attached.
func (s *ClaimService) Get(ctx context.Context, claimID int64) (*models.Claim, error) {
	claim, err := s.repomanager.Claims(s.db).GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	evidence, err := s.repomanager.Evidence(s.db).ListByClaim(ctx, claimID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	claim.Evidence = evidence
	return claim, nil
}

// ListByReport returns the claims filed against a report.
func (s *ClaimService) ListByReport(ctx context.Context, reportID int64) ([]*models.Claim, error) {
	claims, err := s.repomanager.Claims(s.db).ListByReport(ctx, reportID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return claims, nil
}

// ListByClaimant returns the claims filed by an account.
func (s *ClaimService) ListByClaimant(ctx context.Context, userID int64) ([]*models.Claim, error) {
	claims, err := s.repomanager.Claims(s.db).ListByClaimant(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return claims, nil
}

// ListAll returns claims across all reports, optionally filtered by status.
func (s *ClaimService) ListAll(ctx context.Context, status string, limit int) ([]*models.Claim, error) {
	claims, err := s.repomanager.Claims(s.db).ListAll(ctx, status, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return claims, nil
}

// History returns the audit trail of a claim, newest first.
func (s *ClaimService) History(ctx context.Context, claimID int64, limit int) ([]*models.ClaimAuditEntry, error) {
	entries, err := s.repomanager.Audit(s.db).ListByClaim(ctx, claimID, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return entries, nil
}
