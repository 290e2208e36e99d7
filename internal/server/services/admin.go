package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// AdminService implements administrator session management. Two kinds of
// admin are recognized: the environment-held credential pair, and account
// rows carrying the admin role. Both end up with the same signed cookie
// token.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AdminService {
	return &AdminService{db: db, repomanager: m, config: cfg}
}

// Login verifies admin credentials and mints a signed session token bound to
// the admin identity. Credential comparison is constant-time in both paths.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, error) {

	if s.envCredentialsMatch(email, password) {
		return auth.SignAdminToken(email, []byte(s.config.AdminCookieSecret)), nil
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if !user.IsAdmin() {
		return "", common.ErrorUnauthorized
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", common.ErrorUnauthorized
	}

	return auth.SignAdminToken(user.Email, []byte(s.config.AdminCookieSecret)), nil
}

func (s *AdminService) envCredentialsMatch(email, password string) bool {
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.config.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword)) == 1
	return emailOK && passOK
}

// Check validates a session token and returns the admin identity it is bound
// to, or common.ErrorUnauthorized.
func (s *AdminService) Check(token string) (string, error) {
	if !auth.VerifyAdminToken(token, []byte(s.config.AdminCookieSecret), s.config.AdminSessionTTL) {
		return "", common.ErrorUnauthorized
	}
	return auth.ExtractIdentity(token), nil
}

// Refresh validates the presented token and reissues a fresh one for the
// same identity, restarting the session TTL.
func (s *AdminService) Refresh(token string) (string, error) {
	identity, err := s.Check(token)
	if err != nil {
		return "", err
	}
	return auth.SignAdminToken(identity, []byte(s.config.AdminCookieSecret)), nil
}
