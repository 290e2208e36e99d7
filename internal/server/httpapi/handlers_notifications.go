package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// NotificationHandler serves the audit-derived notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
	resolver      *ActorResolver
	log           logging.Logger
}

func NewNotificationHandler(notifications *services.NotificationService, resolver *ActorResolver, log logging.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, resolver: resolver, log: log}
}

// sinceParam parses the optional ?since= unix-milliseconds cutoff.
func sinceParam(r *http.Request) time.Time {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return time.Time{}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

// Feed handles GET /api/notifications. Admins see recent events across all
// claims; claimants see events on their own claims.
func (h *NotificationHandler) Feed(w http.ResponseWriter, r *http.Request) {
	since := sinceParam(r)

	if _, err := h.resolver.Admin(r); err == nil {
		entries, err := h.notifications.AdminFeed(r.Context(), since)
		if err != nil {
			serviceError(w, err)
			return
		}
		OKResponse(w, http.StatusOK, toAuditViews(entries))
		return
	}

	userID, err := h.resolver.ClaimantID(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	entries, err := h.notifications.ClaimantFeed(r.Context(), userID, since)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toAuditViews(entries))
}
