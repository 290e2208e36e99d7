package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// newTestAPI builds a router over the in-memory repositories. The sqlmock
// connection only serves transaction begin/commit calls, so a generous pool
// of unordered expectations is registered up front.
func newTestAPI(t *testing.T, cfg *config.Config) (*http.ServeMux, *repomanager.InMemoryRepositoryManager, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 30; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	rm := repomanager.NewInMemoryRepositoryManager()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	svc := &Services{
		Users:         services.NewUserService(db, rm, cfg),
		Admins:        services.NewAdminService(db, rm, cfg),
		Reports:       services.NewReportService(db, rm, cfg),
		Claims:        services.NewClaimService(db, rm, cfg),
		Notifications: services.NewNotificationService(db, rm, cfg),
		Uploads:       services.NewUploadService(cfg),
	}
	return NewRouter(svc, cfg, log), rm, db
}

func testCfg() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminEmail = "root@example.com"
	cfg.AdminPassword = "hunter2"
	return cfg
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any, mod func(*http.Request)) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if mod != nil {
		mod(req)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	env := &envelope{}
	if err := json.Unmarshal(rec.Body.Bytes(), env); err != nil && rec.Body.Len() > 0 && rec.Body.String() != "OK" {
		t.Fatalf("response is not an envelope: %q", rec.Body.String())
	}
	return rec, env
}

func adminCookie(t *testing.T, mux *http.ServeMux) *http.Cookie {
	t.Helper()
	rec, _ := doJSON(t, mux, http.MethodPost, "/api/admin/login",
		map[string]string{"email": "root@example.com", "password": "hunter2"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_token" {
			return c
		}
	}
	t.Fatal("admin login did not set the admin_token cookie")
	return nil
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

// claimantAuth registers an account, logs it in and returns a request
// modifier carrying the bearer token.
func claimantAuth(t *testing.T, mux *http.ServeMux, userName, email string) func(*http.Request) {
	t.Helper()
	rec, _ := doJSON(t, mux, http.MethodPost, "/api/users/register", map[string]string{
		"userName": userName, "email": email, "password": "pw12345",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	rec, env := doJSON(t, mux, http.MethodPost, "/api/users/login", map[string]string{
		"email": email, "password": "pw12345",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil || session.AccessToken == "" {
		t.Fatalf("login payload = %s, want an accessToken", env.Data)
	}
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.AccessToken) }
}

func TestHealth(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, _ := doJSON(t, mux, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAdminLogin_SetsHttpOnlyCookie(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	cookie := adminCookie(t, mux)
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("cookie is not SameSite=Lax")
	}
	if cookie.Secure {
		t.Error("cookie is Secure outside production")
	}
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, env := doJSON(t, mux, http.MethodPost, "/api/admin/login",
		map[string]string{"email": "root@example.com", "password": "wrong"}, nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "not_authenticated" {
		t.Fatalf("got (%d, %q), want (401, not_authenticated)", rec.Code, env.Error)
	}
}

func TestAdminCheck_RequiresSession(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, env := doJSON(t, mux, http.MethodGet, "/api/admin/check", nil, nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "not_admin" {
		t.Fatalf("got (%d, %q), want (401, not_admin)", rec.Code, env.Error)
	}
}

func TestAdminCheck_WithCookie(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()
	cookie := adminCookie(t, mux)

	rec, env := doJSON(t, mux, http.MethodGet, "/api/admin/check", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil || data["identity"] != "root@example.com" {
		t.Fatalf("data = %s, want identity root@example.com", env.Data)
	}
}

func TestWorkflow_ReportClaimAcceptRelease(t *testing.T) {
	mux, rm, db := newTestAPI(t, testCfg())
	defer db.Close()
	cookie := adminCookie(t, mux)

	// file a report
	rec, env := doJSON(t, mux, http.MethodPost, "/api/reports", map[string]any{
		"reportType": "found",
		"itemName":   "black umbrella",
		"category":   "accessories",
		"images":     []string{"u1.jpg"},
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create report status = %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("report payload: %v", err)
	}

	// claim it
	alice := claimantAuth(t, mux, "alice", "alice@example.com")
	rec, env = doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId":        report.ID,
		"claimantName":    "alice",
		"itemDescription": "wooden handle, broken spoke",
		"evidence":        []string{"e1.jpg"},
	}, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create claim status = %d: %s", rec.Code, rec.Body.String())
	}
	var claim struct {
		ID          int64  `json:"id"`
		ClaimStatus string `json:"claimStatus"`
	}
	if err := json.Unmarshal(env.Data, &claim); err != nil {
		t.Fatalf("claim payload: %v", err)
	}
	if claim.ClaimStatus != models.ClaimStatusPending {
		t.Errorf("claim status = %q, want pending", claim.ClaimStatus)
	}

	// accept mints the handover token, returned exactly once
	rec, env = doJSON(t, mux, http.MethodPost, "/api/admin/claims/"+itoa(claim.ID)+"/accept", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("accept status = %d: %s", rec.Code, rec.Body.String())
	}
	var accepted map[string]string
	if err := json.Unmarshal(env.Data, &accepted); err != nil || accepted["handoverToken"] == "" {
		t.Fatalf("accept payload = %s, want a handoverToken", env.Data)
	}
	token := accepted["handoverToken"]

	bob := claimantAuth(t, mux, "bob", "bob@example.com")
	rec, env = doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId":        report.ID,
		"claimantName":    "bob",
		"itemDescription": "my umbrella, lost tuesday",
		"evidence":        []string{"e2.jpg"},
	}, bob)
	if rec.Code != http.StatusConflict || env.Error != "already_claimed" {
		t.Fatalf("got (%d, %q), want (409, already_claimed)", rec.Code, env.Error)
	}

	// release with a wrong token fails, with the right one succeeds
	rec, env = doJSON(t, mux, http.MethodPost, "/api/admin/claims/"+itoa(claim.ID)+"/release",
		map[string]string{"handoverToken": "bogus"}, withCookie(cookie))
	if rec.Code != http.StatusForbidden || env.Error != "invalid_token" {
		t.Fatalf("got (%d, %q), want (403, invalid_token)", rec.Code, env.Error)
	}

	rec, _ = doJSON(t, mux, http.MethodPost, "/api/admin/claims/"+itoa(claim.ID)+"/release",
		map[string]string{"handoverToken": token}, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("release status = %d: %s", rec.Code, rec.Body.String())
	}

	gotReport, _ := rm.ReportsRepo.GetByID(context.Background(), report.ID)
	if gotReport.ItemStatus != models.ItemStatusReleased {
		t.Errorf("report status = %q, want released", gotReport.ItemStatus)
	}
}

func TestWorkflow_ChallengeVerify(t *testing.T) {
	mux, rm, db := newTestAPI(t, testCfg())
	defer db.Close()
	cookie := adminCookie(t, mux)

	report, _ := rm.ReportsRepo.Create(context.Background(), &models.Report{
		ReportType: models.ReportTypeFound, ItemName: "keys", ItemStatus: models.ItemStatusFound,
	})
	claim, _ := rm.ClaimsRepo.Create(context.Background(), &models.Claim{
		ReportID: report.ID, ClaimantName: "alice", ClaimStatus: models.ClaimStatusPending,
	})

	rec, env := doJSON(t, mux, http.MethodPost, "/api/admin/claims/"+itoa(claim.ID)+"/challenge", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("challenge status = %d: %s", rec.Code, rec.Body.String())
	}
	var challenge map[string]string
	if err := json.Unmarshal(env.Data, &challenge); err != nil || len(challenge["code"]) != 6 {
		t.Fatalf("challenge payload = %s, want a 6-digit code", env.Data)
	}

	// wrong code first
	wrong := "000000"
	if wrong == challenge["code"] {
		wrong = "000001"
	}
	rec, env = doJSON(t, mux, http.MethodPost, "/api/claims/"+itoa(claim.ID)+"/verify",
		map[string]string{"code": wrong, "imageUrl": "photo.jpg"}, nil)
	if rec.Code != http.StatusBadRequest || env.Error != "invalid_code" {
		t.Fatalf("got (%d, %q), want (400, invalid_code)", rec.Code, env.Error)
	}

	rec, _ = doJSON(t, mux, http.MethodPost, "/api/claims/"+itoa(claim.ID)+"/verify",
		map[string]string{"code": challenge["code"], "imageUrl": "photo.jpg"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", rec.Code, rec.Body.String())
	}

	got, _ := rm.ClaimsRepo.GetByID(context.Background(), claim.ID)
	if got.ClaimStatus != models.ClaimStatusChallengeVerified {
		t.Errorf("claim status = %q, want challenge_verified", got.ClaimStatus)
	}
}

func TestClaimantSession_RegisterLoginProfile(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/users/register", map[string]string{
		"fullName": "Alice Smith",
		"userName": "alice",
		"email":    "alice@example.com",
		"password": "s3cret!",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, env := doJSON(t, mux, http.MethodPost, "/api/users/login", map[string]string{
		"email": "alice@example.com", "password": "s3cret!",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil || session.AccessToken == "" {
		t.Fatalf("login payload = %s, want an accessToken", env.Data)
	}

	rec, env = doJSON(t, mux, http.MethodGet, "/api/profile", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+session.AccessToken)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d: %s", rec.Code, rec.Body.String())
	}
	var profile struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil || profile.Email != "alice@example.com" {
		t.Fatalf("profile payload = %s, want alice@example.com", env.Data)
	}

	// no token, no profile
	rec, env = doJSON(t, mux, http.MethodGet, "/api/profile", nil, nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "not_authenticated" {
		t.Fatalf("got (%d, %q), want (401, not_authenticated)", rec.Code, env.Error)
	}
}

func TestAdminRole_AccountActsAsAdmin(t *testing.T) {
	mux, rm, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/users/register", map[string]string{
		"userName": "boss", "email": "boss@example.com", "password": "pw123",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}
	user, err := rm.UsersRepo.GetByEmail(context.Background(), "boss@example.com")
	if err != nil {
		t.Fatalf("looking up account: %v", err)
	}
	user.UserType = models.UserTypeAdmin
	rm.UsersRepo.Seed(user)

	rec, env := doJSON(t, mux, http.MethodPost, "/api/users/login", map[string]string{
		"email": "boss@example.com", "password": "pw123",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var session struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("login payload: %v", err)
	}

	rec, _ = doJSON(t, mux, http.MethodGet, "/api/admin/claims", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+session.AccessToken)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin claims via role status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNotifications_AdminAndClaimantFeeds(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()
	cookie := adminCookie(t, mux)

	// unauthenticated callers get nothing
	rec, env := doJSON(t, mux, http.MethodGet, "/api/notifications", nil, nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "not_authenticated" {
		t.Fatalf("got (%d, %q), want (401, not_authenticated)", rec.Code, env.Error)
	}

	rec, _ = doJSON(t, mux, http.MethodPost, "/api/reports", map[string]any{
		"reportType": "found", "itemName": "wallet",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("report status = %d", rec.Code)
	}
	alice := claimantAuth(t, mux, "alice", "alice@example.com")
	rec, _ = doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": 1, "claimantName": "alice",
		"itemDescription": "brown leather wallet",
		"evidence":        []string{"e1.jpg"},
	}, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("claim status = %d", rec.Code)
	}

	rec, env = doJSON(t, mux, http.MethodGet, "/api/notifications", nil, withCookie(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin feed status = %d: %s", rec.Code, rec.Body.String())
	}
	var feed []json.RawMessage
	if err := json.Unmarshal(env.Data, &feed); err != nil || len(feed) != 1 {
		t.Fatalf("admin feed = %s, want 1 entry", env.Data)
	}
}

func TestCreateClaim_RequiresSession(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, env := doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": 1, "claimantName": "alice",
		"itemDescription": "brown leather wallet", "evidence": []string{"e1.jpg"},
	}, nil)
	if rec.Code != http.StatusUnauthorized || env.Error != "not_authenticated" {
		t.Fatalf("got (%d, %q), want (401, not_authenticated)", rec.Code, env.Error)
	}
}

func TestCreateClaim_RejectsEmptyEvidence(t *testing.T) {
	mux, rm, db := newTestAPI(t, testCfg())
	defer db.Close()

	report, _ := rm.ReportsRepo.Create(context.Background(), &models.Report{
		ReportType: models.ReportTypeFound, ItemName: "wallet", ItemStatus: models.ItemStatusFound,
	})
	alice := claimantAuth(t, mux, "alice", "alice@example.com")

	rec, env := doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": report.ID, "claimantName": "alice",
		"itemDescription": "brown leather wallet",
	}, alice)
	if rec.Code != http.StatusBadRequest || env.Error != "invalid_payload" {
		t.Fatalf("got (%d, %q), want (400, invalid_payload)", rec.Code, env.Error)
	}

	rec, env = doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": report.ID, "claimantName": "alice",
		"itemDescription": "mine", "evidence": []string{"e1.jpg"},
	}, alice)
	if rec.Code != http.StatusBadRequest || env.Error != "invalid_payload" {
		t.Fatalf("short description: got (%d, %q), want (400, invalid_payload)", rec.Code, env.Error)
	}
}

func TestVerifyChallenge_RequiresImage(t *testing.T) {
	mux, rm, db := newTestAPI(t, testCfg())
	defer db.Close()

	claim, _ := rm.ClaimsRepo.Create(context.Background(), &models.Claim{
		ReportID: 1, ClaimantName: "alice", ClaimStatus: models.ClaimStatusChallengeRequested,
	})

	rec, env := doJSON(t, mux, http.MethodPost, "/api/claims/"+itoa(claim.ID)+"/verify",
		map[string]string{"code": "123456"}, nil)
	if rec.Code != http.StatusBadRequest || env.Error != "missing_fields" {
		t.Fatalf("got (%d, %q), want (400, missing_fields)", rec.Code, env.Error)
	}
}

func TestReportNotFound(t *testing.T) {
	mux, _, db := newTestAPI(t, testCfg())
	defer db.Close()

	rec, env := doJSON(t, mux, http.MethodGet, "/api/reports/999", nil, nil)
	if rec.Code != http.StatusNotFound || env.Error != "not_found" {
		t.Fatalf("got (%d, %q), want (404, not_found)", rec.Code, env.Error)
	}
}

func TestRateLimit_SurfacesAs429(t *testing.T) {
	cfg := testCfg()
	cfg.RateLimitMax = 1
	mux, rm, db := newTestAPI(t, cfg)
	defer db.Close()

	ra, _ := rm.ReportsRepo.Create(context.Background(), &models.Report{
		ReportType: models.ReportTypeFound, ItemName: "a", ItemStatus: models.ItemStatusFound,
	})
	rb, _ := rm.ReportsRepo.Create(context.Background(), &models.Report{
		ReportType: models.ReportTypeFound, ItemName: "b", ItemStatus: models.ItemStatusFound,
	})

	alice := claimantAuth(t, mux, "alice", "alice@example.com")
	rec, _ := doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": ra.ID, "claimantName": "alice",
		"itemDescription": "brass house keys", "evidence": []string{"e1.jpg"},
	}, alice)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first claim status = %d: %s", rec.Code, rec.Body.String())
	}
	rec, env := doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": rb.ID, "claimantName": "alice",
		"itemDescription": "brass house keys", "evidence": []string{"e1.jpg"},
	}, alice)
	if rec.Code != http.StatusTooManyRequests || env.Error != "rate_limited" {
		t.Fatalf("got (%d, %q), want (429, rate_limited)", rec.Code, env.Error)
	}

	// the quota is per account, not global
	bella := claimantAuth(t, mux, "bella", "bella@example.com")
	rec, _ = doJSON(t, mux, http.MethodPost, "/api/claims", map[string]any{
		"reportId": rb.ID, "claimantName": "bella",
		"itemDescription": "brass house keys", "evidence": []string{"e2.jpg"},
	}, bella)
	if rec.Code != http.StatusCreated {
		t.Fatalf("other claimant status = %d, want 201", rec.Code)
	}
}

func itoa(id int64) string {
	return fmt.Sprintf("%d", id)
}
