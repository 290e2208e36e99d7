package models

import "time"

// Claim secret kinds. A handover secret stores the SHA-256 hex hash of the
// handover token; a challenge secret stores the numeric code itself.
const (
	SecretKindHandover  = "handover"
	SecretKindChallenge = "challenge"
)

// ClaimSecret is a pending secret issued during the claim workflow, keyed by
// claim. Superseded or redeemed secrets are marked consumed rather than
// deleted, so the issuance history stays intact.
type ClaimSecret struct {
	ID         int64
	ClaimID    int64
	Kind       string
	Value      string
	ConsumedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}
