package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// ActorResolver recognizes who is calling. Claimants carry a Bearer session
// token; admins carry either the signed admin cookie or a claimant session
// whose account has the admin role.
type ActorResolver struct {
	admins        *services.AdminService
	users         *services.UserService
	sessionSecret []byte
}

func NewActorResolver(admins *services.AdminService, users *services.UserService, sessionSecret []byte) *ActorResolver {
	return &ActorResolver{admins: admins, users: users, sessionSecret: sessionSecret}
}

// bearerToken extracts the Authorization bearer value, if any.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// ClaimantID resolves the signed-in claimant, or common.ErrorUnauthorized.
func (ar *ActorResolver) ClaimantID(r *http.Request) (int64, error) {
	token := bearerToken(r)
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	userID, err := auth.GetUserIDFromSessionToken(token, ar.sessionSecret)
	if err != nil {
		return 0, common.ErrorUnauthorized
	}
	return userID, nil
}

// Admin resolves an administrator from the request, trying the admin cookie
// first and falling back to an admin-role account session. Returns
// common.ErrorNotAdmin when neither route succeeds.
func (ar *ActorResolver) Admin(r *http.Request) (*services.Actor, error) {
	if cookie, err := r.Cookie(auth.AdminCookieName); err == nil && cookie.Value != "" {
		identity, err := ar.admins.Check(cookie.Value)
		if err == nil {
			actor := &services.Actor{Identity: identity}
			// admin accounts get their id attached for the audit trail
			if user, err := ar.users.GetByEmail(r.Context(), identity); err == nil {
				actor.UserID = &user.ID
			}
			return actor, nil
		}
	}

	userID, err := ar.ClaimantID(r)
	if err != nil {
		return nil, common.ErrorNotAdmin
	}
	user, err := ar.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotAdmin
		}
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, common.ErrorNotAdmin
	}
	return &services.Actor{UserID: &user.ID, Identity: user.Email}, nil
}
