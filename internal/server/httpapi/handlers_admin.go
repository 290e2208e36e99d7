package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// AdminHandler serves the administrator surface: session management and the
// claim workflow actions.
type AdminHandler struct {
	admins   *services.AdminService
	claims   *services.ClaimService
	reports  *services.ReportService
	users    *services.UserService
	resolver *ActorResolver
	config   *config.Config
	log      logging.Logger
}

func NewAdminHandler(admins *services.AdminService, claims *services.ClaimService,
	reports *services.ReportService, users *services.UserService,
	resolver *ActorResolver, cfg *config.Config, log logging.Logger) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		claims:   claims,
		reports:  reports,
		users:    users,
		resolver: resolver,
		config:   cfg,
		log:      log,
	}
}

func (h *AdminHandler) setAdminCookie(w http.ResponseWriter, token string) {
	w.Header().Set("Set-Cookie", auth.FormatAdminCookie(token, h.config.Production))
}

// requireAdmin resolves the admin actor or writes a not_admin response.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (*services.Actor, bool) {
	actor, err := h.resolver.Admin(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_admin")
		return nil, false
	}
	return actor, true
}

// Login handles POST /api/admin/login. On success the signed session token
// is set as an HttpOnly cookie.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := ParseJSONBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_fields")
		return
	}

	token, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.setAdminCookie(w, token)
	h.log.Info(r.Context(), "admin logged in", "identity", req.Email)
	OKResponse(w, http.StatusOK, nil)
}

// Logout handles POST /api/admin/logout by expiring the cookie.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Name:     auth.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.Production,
	}
	http.SetCookie(w, cookie)
	OKResponse(w, http.StatusOK, nil)
}

// Check handles GET /api/admin/check.
func (h *AdminHandler) Check(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	OKResponse(w, http.StatusOK, map[string]string{"identity": actor.Identity})
}

// Refresh handles POST /api/admin/refresh: a valid cookie is exchanged for a
// fresh one, restarting the TTL.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.AdminCookieName)
	if err != nil || cookie.Value == "" {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	token, err := h.admins.Refresh(cookie.Value)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.setAdminCookie(w, token)
	OKResponse(w, http.StatusOK, nil)
}

// ListClaims handles GET /api/admin/claims?status=&limit=.
func (h *AdminHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	claims, err := h.claims.ListAll(r.Context(), q.Get("status"), limit)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toClaimViews(claims))
}

// ClaimHistory handles GET /api/admin/claims/{id}/history.
func (h *AdminHandler) ClaimHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	entries, err := h.claims.History(r.Context(), id, 0)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toAuditViews(entries))
}

// Accept handles POST /api/admin/claims/{id}/accept. The response carries
// the handover token plaintext; this is its only appearance.
func (h *AdminHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	token, err := h.claims.Accept(r.Context(), id, actor)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "claim accepted", "claim_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, map[string]string{"handoverToken": token})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /api/admin/claims/{id}/reject.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req rejectRequest
	_ = ParseJSONBody(r, &req) // reason is optional

	if err := h.claims.Reject(r.Context(), id, req.Reason, actor); err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "claim rejected", "claim_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, nil)
}

// Challenge handles POST /api/admin/claims/{id}/challenge. The code is
// returned for out-of-band delivery to the claimant.
func (h *AdminHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	code, err := h.claims.RequestChallenge(r.Context(), id, actor)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "challenge requested", "claim_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, map[string]string{"code": code})
}

type releaseRequest struct {
	HandoverToken string `json:"handoverToken"`
}

// Release handles POST /api/admin/claims/{id}/release.
func (h *AdminHandler) Release(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req releaseRequest
	if err := ParseJSONBody(r, &req); err != nil || req.HandoverToken == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_token")
		return
	}

	if err := h.claims.Release(r.Context(), id, req.HandoverToken, actor); err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "item released", "claim_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, nil)
}

// ListUsers handles GET /api/admin/users?limit=&offset=.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 {
		limit = 50
	}

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		serviceError(w, err)
		return
	}

	views := make([]*userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	OKResponse(w, http.StatusOK, views)
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.users.Delete(r.Context(), id, actor); err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "user deleted", "user_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, nil)
}

// DeleteReport handles DELETE /api/admin/reports/{id}.
func (h *AdminHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	if err := h.reports.Delete(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "report deleted", "report_id", id, "by", actor.Identity)
	OKResponse(w, http.StatusOK, nil)
}
