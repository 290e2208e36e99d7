package models

import "time"

// Claim statuses. challenge_requested and challenge_verified are parallel
// identity-verification states; they do not gate accept/reject/release.
const (
	ClaimStatusPending            = "pending"
	ClaimStatusChallengeRequested = "challenge_requested"
	ClaimStatusChallengeVerified  = "challenge_verified"
	ClaimStatusAccepted           = "accepted"
	ClaimStatusRejected           = "rejected"
	ClaimStatusReleased           = "released"
)

// CommittedClaimStatuses are the statuses that mean the item is spoken for:
// a report with a claim in one of these states accepts no new claims, and a
// claim in one of these states cannot be accepted again.
var CommittedClaimStatuses = []string{
	ClaimStatusChallengeVerified,
	ClaimStatusAccepted,
	ClaimStatusReleased,
}

// Claim is a claimant's assertion of ownership over a report. Claims are
// never deleted; history is preserved through the audit trail.
type Claim struct {
	ID              int64
	ReportID        int64
	ClaimantName    string
	ItemDescription string
	ClaimStatus     string
	ClaimantUserID  *int64
	TrustScore      int
	CreatedAt       time.Time

	Evidence []ClaimEvidence
}

// IsCommitted reports whether the claim is in a committed state.
func (c *Claim) IsCommitted() bool {
	for _, s := range CommittedClaimStatuses {
		if c.ClaimStatus == s {
			return true
		}
	}
	return false
}

// EvidenceKindPhoto is the default evidence kind.
const EvidenceKindPhoto = "photo"

// ClaimEvidence is a supporting image URL attached at claim-submission time,
// immutable thereafter.
type ClaimEvidence struct {
	ID        int64
	ClaimID   int64
	URL       string
	Kind      string
	CreatedAt time.Time
}
