package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// View types shape the JSON the API returns. They decouple wire names from
// the storage models.

type userView struct {
	ID              int64  `json:"id"`
	FullName        string `json:"fullName,omitempty"`
	UserName        string `json:"userName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	UserType        string `json:"userType"`
	CreatedAt       string `json:"createdAt"`
}

func toUserView(u *models.User) *userView {
	return &userView{
		ID:              u.ID,
		FullName:        u.FullName,
		UserName:        u.UserName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		ProfileImageURL: u.ProfileImageURL,
		UserType:        u.UserType,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
}

type reportView struct {
	ID           int64    `json:"id"`
	ReportType   string   `json:"reportType"`
	ItemName     string   `json:"itemName"`
	Location     string   `json:"location,omitempty"`
	ReportDate   string   `json:"reportDate"`
	ItemStatus   string   `json:"itemStatus"`
	CategoryID   *int64   `json:"categoryId,omitempty"`
	Description  string   `json:"description,omitempty"`
	ContactInfo  string   `json:"contactInfo,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
	Images       []string `json:"images,omitempty"`
	CreatedAt    string   `json:"createdAt"`
}

func toReportView(r *models.Report) *reportView {
	v := &reportView{
		ID:           r.ID,
		ReportType:   r.ReportType,
		ItemName:     r.ItemName,
		Location:     r.Location,
		ReportDate:   r.ReportDate.Format(time.RFC3339),
		ItemStatus:   r.ItemStatus,
		CategoryID:   r.CategoryID,
		Description:  r.Description,
		ContactInfo:  r.ContactInfo,
		ContactEmail: r.ContactEmail,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	for _, img := range r.Images {
		v.Images = append(v.Images, img.URL)
	}
	return v
}

func toReportViews(reports []*models.Report) []*reportView {
	result := make([]*reportView, 0, len(reports))
	for _, r := range reports {
		result = append(result, toReportView(r))
	}
	return result
}

type claimView struct {
	ID              int64    `json:"id"`
	ReportID        int64    `json:"reportId"`
	ClaimantName    string   `json:"claimantName"`
	ItemDescription string   `json:"itemDescription,omitempty"`
	ClaimStatus     string   `json:"claimStatus"`
	ClaimantUserID  *int64   `json:"claimantUserId,omitempty"`
	TrustScore      int      `json:"trustScore"`
	Evidence        []string `json:"evidence,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

func toClaimView(c *models.Claim) *claimView {
	v := &claimView{
		ID:              c.ID,
		ReportID:        c.ReportID,
		ClaimantName:    c.ClaimantName,
		ItemDescription: c.ItemDescription,
		ClaimStatus:     c.ClaimStatus,
		ClaimantUserID:  c.ClaimantUserID,
		TrustScore:      c.TrustScore,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
	for _, e := range c.Evidence {
		v.Evidence = append(v.Evidence, e.URL)
	}
	return v
}

func toClaimViews(claims []*models.Claim) []*claimView {
	result := make([]*claimView, 0, len(claims))
	for _, c := range claims {
		result = append(result, toClaimView(c))
	}
	return result
}

type auditView struct {
	ID          int64           `json:"id"`
	ClaimID     int64           `json:"claimId"`
	ActorUserID *int64          `json:"actorUserId,omitempty"`
	Action      string          `json:"action"`
	Details     json.RawMessage `json:"details,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}

func toAuditView(e *models.ClaimAuditEntry) *auditView {
	return &auditView{
		ID:          e.ID,
		ClaimID:     e.ClaimID,
		ActorUserID: e.ActorUserID,
		Action:      e.Action,
		Details:     json.RawMessage(e.Details),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func toAuditViews(entries []*models.ClaimAuditEntry) []*auditView {
	result := make([]*auditView, 0, len(entries))
	for _, e := range entries {
		result = append(result, toAuditView(e))
	}
	return result
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toCategoryViews(categories []*models.Category) []*categoryView {
	result := make([]*categoryView, 0, len(categories))
	for _, c := range categories {
		result = append(result, &categoryView{ID: c.ID, Name: c.Name})
	}
	return result
}
