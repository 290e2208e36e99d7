package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// ClaimHandler serves claimant-facing claim endpoints. Administrative
// workflow actions (accept, reject, challenge, release) live on AdminHandler.
type ClaimHandler struct {
	claims   *services.ClaimService
	resolver *ActorResolver
	log      logging.Logger
}

func NewClaimHandler(claims *services.ClaimService, resolver *ActorResolver, log logging.Logger) *ClaimHandler {
	return &ClaimHandler{claims: claims, resolver: resolver, log: log}
}

type createClaimRequest struct {
	ReportID        int64    `json:"reportId"`
	ClaimantName    string   `json:"claimantName"`
	ItemDescription string   `json:"itemDescription"`
	Evidence        []string `json:"evidence"`
}

// Create handles POST /api/claims. Requires a claimant session: the quota
// is keyed on the account, and the claim carries it for the audit trail.
func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.ClaimantID(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	var req createClaimRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if req.ReportID <= 0 || req.ClaimantName == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_fields")
		return
	}

	input := &services.CreateClaimInput{
		ReportID:        req.ReportID,
		ClaimantName:    req.ClaimantName,
		ItemDescription: req.ItemDescription,
		EvidenceURLs:    req.Evidence,
		ClaimantUserID:  &userID,
	}

	claim, err := h.claims.Create(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "claim submitted", "claim_id", claim.ID, "report_id", claim.ReportID)
	OKResponse(w, http.StatusCreated, toClaimView(claim))
}

// Mine handles GET /api/claims/mine.
func (h *ClaimHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.ClaimantID(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	claims, err := h.claims.ListByClaimant(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toClaimViews(claims))
}

// ByReport handles GET /api/reports/{id}/claims. Admin only: claims expose
// claimant details.
func (h *ClaimHandler) ByReport(w http.ResponseWriter, r *http.Request) {
	if _, err := h.resolver.Admin(r); err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_admin")
		return
	}

	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	claims, err := h.claims.ListByReport(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toClaimViews(claims))
}

type verifyChallengeRequest struct {
	Code     string `json:"code"`
	ImageURL string `json:"imageUrl"`
}

// Verify handles POST /api/claims/{id}/verify. The claimant submits the
// challenge code with a photo; deliberately no admin gate.
func (h *ClaimHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	var req verifyChallengeRequest
	if err := ParseJSONBody(r, &req); err != nil || req.Code == "" || req.ImageURL == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_fields")
		return
	}

	actor := &services.Actor{Identity: "claimant"}
	if userID, err := h.resolver.ClaimantID(r); err == nil {
		actor.UserID = &userID
	}

	if err := h.claims.VerifyChallenge(r.Context(), id, req.Code, req.ImageURL, actor); err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "challenge verified", "claim_id", id)
	OKResponse(w, http.StatusOK, nil)
}
