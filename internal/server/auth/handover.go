package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// MintHandoverToken generates the opaque handover token returned once to
// the admin at accept time. The payload is "claimID:unixMillis:code" with a
// random six-digit code, base64-encoded so it scans cleanly from a QR
// artifact. Possession of the plaintext is the sole proof needed to
// authorize release; the system stores only the hash.
func MintHandoverToken(claimID int64) (string, error) {
	code, err := GenerateChallengeCode()
	if err != nil {
		return "", err
	}
	payload := fmt.Sprintf("%d:%d:%s", claimID, time.Now().UnixMilli(), code)
	return base64.StdEncoding.EncodeToString([]byte(payload)), nil
}

// HashHandoverToken returns the SHA-256 hex digest of the raw token bytes.
// Used both at mint time (store the hash) and at redemption time (recompute
// and compare).
func HashHandoverToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateChallengeCode returns a uniformly random six-digit numeric code
// in [100000, 999999].
func GenerateChallengeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
