// Package httpapi exposes the service layer over a JSON HTTP API using the
// Go 1.22 method-pattern mux.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// Services bundles everything the router needs.
type Services struct {
	Users         *services.UserService
	Admins        *services.AdminService
	Reports       *services.ReportService
	Claims        *services.ClaimService
	Notifications *services.NotificationService
	Uploads       *services.UploadService
}

// NewRouter wires all handlers onto a ServeMux.
func NewRouter(svc *Services, cfg *config.Config, log logging.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	resolver := NewActorResolver(svc.Admins, svc.Users, []byte(cfg.SessionSecret))

	userHandler := NewUserHandler(svc.Users, resolver, log)
	reportHandler := NewReportHandler(svc.Reports, log)
	claimHandler := NewClaimHandler(svc.Claims, resolver, log)
	adminHandler := NewAdminHandler(svc.Admins, svc.Claims, svc.Reports, svc.Users, resolver, cfg, log)
	notificationHandler := NewNotificationHandler(svc.Notifications, resolver, log)
	uploadHandler := NewUploadHandler(svc.Uploads, resolver, log)

	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return WithLogging(log, next)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/users/register", wrap(userHandler.Register))
	mux.HandleFunc("POST /api/users/login", wrap(userHandler.Login))
	mux.HandleFunc("POST /api/users/refresh", wrap(userHandler.Refresh))
	mux.HandleFunc("GET /api/profile", wrap(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/profile", wrap(userHandler.UpdateProfile))

	// Reports
	mux.HandleFunc("POST /api/reports", wrap(reportHandler.Create))
	mux.HandleFunc("GET /api/reports", wrap(reportHandler.List))
	mux.HandleFunc("GET /api/reports/{id}", wrap(reportHandler.Get))
	mux.HandleFunc("GET /api/categories", wrap(reportHandler.Categories))

	// Claims (claimant side)
	mux.HandleFunc("POST /api/claims", wrap(claimHandler.Create))
	mux.HandleFunc("GET /api/claims/mine", wrap(claimHandler.Mine))
	mux.HandleFunc("GET /api/reports/{id}/claims", wrap(claimHandler.ByReport))
	mux.HandleFunc("POST /api/claims/{id}/verify", wrap(claimHandler.Verify))

	// Uploads
	mux.HandleFunc("GET /api/uploads/presign", wrap(uploadHandler.Presign))

	// Notifications
	mux.HandleFunc("GET /api/notifications", wrap(notificationHandler.Feed))

	// Admin sessions
	mux.HandleFunc("POST /api/admin/login", wrap(adminHandler.Login))
	mux.HandleFunc("POST /api/admin/logout", wrap(adminHandler.Logout))
	mux.HandleFunc("GET /api/admin/check", wrap(adminHandler.Check))
	mux.HandleFunc("POST /api/admin/refresh", wrap(adminHandler.Refresh))

	// Admin claim workflow
	mux.HandleFunc("GET /api/admin/claims", wrap(adminHandler.ListClaims))
	mux.HandleFunc("GET /api/admin/claims/{id}/history", wrap(adminHandler.ClaimHistory))
	mux.HandleFunc("POST /api/admin/claims/{id}/accept", wrap(adminHandler.Accept))
	mux.HandleFunc("POST /api/admin/claims/{id}/reject", wrap(adminHandler.Reject))
	mux.HandleFunc("POST /api/admin/claims/{id}/challenge", wrap(adminHandler.Challenge))
	mux.HandleFunc("POST /api/admin/claims/{id}/release", wrap(adminHandler.Release))

	// Admin management
	mux.HandleFunc("GET /api/admin/users", wrap(adminHandler.ListUsers))
	mux.HandleFunc("DELETE /api/admin/users/{id}", wrap(adminHandler.DeleteUser))
	mux.HandleFunc("DELETE /api/admin/reports/{id}", wrap(adminHandler.DeleteReport))

	return mux
}
