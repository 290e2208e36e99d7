package auth

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the registered claims plus the account id of the
// claimant the session belongs to.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateSessionToken issues an HS256 claimant session token for userID.
func GenerateSessionToken(userID int64, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: strconv.FormatInt(userID, 10),
	})

	return token.SignedString(secret)
}

// GetUserIDFromSessionToken parses and validates a claimant session token
// and returns the embedded account id.
func GetUserIDFromSessionToken(tokenString string, secret []byte) (int64, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return userID, nil
}
