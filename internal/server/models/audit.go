package models

import "time"

// Claim audit action tags.
const (
	AuditActionCreateClaim      = "create_claim"
	AuditActionAccept           = "accept"
	AuditActionReject           = "reject"
	AuditActionRequestChallenge = "request_challenge"
	AuditActionVerifyChallenge  = "verify_challenge"
	AuditActionRelease          = "release"
)

// ClaimAuditEntry is an append-only record of one action taken against a
// claim. Details carries an action-specific JSON payload. Entries are never
// mutated or deleted.
type ClaimAuditEntry struct {
	ID          int64
	ActorUserID *int64
	ClaimID     int64
	Action      string
	Details     string
	CreatedAt   time.Time
}

// UserAuditEntry records an administrative action taken against a user
// account (e.g. delete). Append-only, like ClaimAuditEntry.
type UserAuditEntry struct {
	ID           int64
	ActorUserID  *int64
	TargetUserID int64
	Action       string
	Details      string
	CreatedAt    time.Time
}
