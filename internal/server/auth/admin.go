// Package auth implements the bearer tokens of the claim workflow: signed
// time-limited admin session tokens, opaque single-issue handover tokens,
// challenge codes and claimant session JWTs. Secrets are never persisted in
// plaintext; only the handover token hash is stored.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// adminTokenSep separates the identity, timestamp and signature fields of
// an admin token. Identities (emails) must not contain it; Verify treats
// everything after the second field as the signature, so a signature
// containing the separator still verifies.
const adminTokenSep = ":"

// SignAdminToken composes "identity:unixMillis", signs it with
// HMAC-SHA256 over the secret, and returns
// base64("identity:unixMillis:hexSignature").
func SignAdminToken(identity string, secret []byte) string {
	return signAdminTokenAt(identity, time.Now().UnixMilli(), secret)
}

func signAdminTokenAt(identity string, millis int64, secret []byte) string {
	payload := identity + adminTokenSep + strconv.FormatInt(millis, 10)
	raw := payload + adminTokenSep + hmacHex(secret, payload)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// VerifyAdminToken reports whether token is a well-formed admin token with a
// valid signature whose issuance timestamp is within ttl of now. Malformed
// input, corrupted base64 and expired tokens all yield false; the function
// never panics or returns an error.
func VerifyAdminToken(token string, secret []byte, ttl time.Duration) bool {
	identity, millis, sig, ok := splitAdminToken(token)
	if !ok {
		return false
	}

	payload := identity + adminTokenSep + strconv.FormatInt(millis, 10)
	expected := hmacHex(secret, payload)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return false
	}

	issued := time.UnixMilli(millis)
	return time.Since(issued) <= ttl
}

// ExtractIdentity decodes the identity field without verifying the
// signature. Returns "" for malformed tokens. Use only after a successful
// VerifyAdminToken, or for display purposes.
func ExtractIdentity(token string) string {
	identity, _, _, ok := splitAdminToken(token)
	if !ok {
		return ""
	}
	return identity
}

// splitAdminToken decodes and splits a token into identity, issuance millis
// and signature. The first field is the identity and the remaining fields
// past the timestamp are rejoined as the signature.
func splitAdminToken(token string) (identity string, millis int64, sig string, ok bool) {
	if token == "" {
		return "", 0, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", 0, "", false
	}

	parts := strings.Split(string(raw), adminTokenSep)
	if len(parts) < 3 {
		return "", 0, "", false
	}

	identity = parts[0]
	millis, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil || identity == "" {
		return "", 0, "", false
	}
	sig = strings.Join(parts[2:], adminTokenSep)
	if sig == "" {
		return "", 0, "", false
	}
	return identity, millis, sig, true
}

func hmacHex(secret []byte, message string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// AdminCookieName is the cookie the admin session token travels in.
const AdminCookieName = "admin_token"

// FormatAdminCookie renders the Set-Cookie attributes for an admin session
// token: HttpOnly, SameSite=Lax, Secure in production, no Max-Age (lifetime
// is governed entirely by the TTL embedded in the signed timestamp).
func FormatAdminCookie(token string, production bool) string {
	c := fmt.Sprintf("%s=%s; Path=/; HttpOnly; SameSite=Lax", AdminCookieName, token)
	if production {
		c += "; Secure"
	}
	return c
}
