// Package common defines shared constants and sentinel errors used across
// the lostfound service layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNotAdmin     = errors.New("not admin")

	// Validation errors.
	ErrorInvalidPayload = errors.New("invalid payload")
	ErrorAlreadyExists  = errors.New("already exists")

	// Claim workflow conflict errors.
	ErrReportNotFound = errors.New("report not found")
	ErrAlreadyClaimed = errors.New("report already claimed")
	ErrClaimCommitted = errors.New("claim already in a committed state")
	ErrRateLimited    = errors.New("rate limited")

	// Claim workflow state-precondition errors.
	ErrNoChallenge    = errors.New("no challenge issued")
	ErrInvalidCode    = errors.New("challenge code mismatch")
	ErrNoAcceptRecord = errors.New("no accept record")
	ErrInvalidToken   = errors.New("invalid token")
	ErrNotVerified    = errors.New("challenge not verified")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
