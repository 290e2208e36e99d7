package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// ReportHandler serves lost/found report endpoints.
type ReportHandler struct {
	reports *services.ReportService
	log     logging.Logger
}

func NewReportHandler(reports *services.ReportService, log logging.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

type createReportRequest struct {
	ReportType   string   `json:"reportType"`
	ItemName     string   `json:"itemName"`
	Location     string   `json:"location"`
	ReportDate   string   `json:"reportDate"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	ContactInfo  string   `json:"contactInfo"`
	ContactEmail string   `json:"contactEmail"`
	Images       []string `json:"images"`
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if req.ItemName == "" || req.ReportType == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_fields")
		return
	}

	var reportDate time.Time
	if req.ReportDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReportDate)
		if err != nil {
			ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
			return
		}
		reportDate = parsed
	}

	report, err := h.reports.Create(r.Context(), &services.CreateReportInput{
		ReportType:   req.ReportType,
		ItemName:     req.ItemName,
		Location:     req.Location,
		ReportDate:   reportDate,
		Category:     req.Category,
		Description:  req.Description,
		ContactInfo:  req.ContactInfo,
		ContactEmail: req.ContactEmail,
		ImageURLs:    req.Images,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "report filed", "report_id", report.ID, "type", report.ReportType)
	OKResponse(w, http.StatusCreated, toReportView(report))
}

// List handles GET /api/reports.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	reports, err := h.reports.List(r.Context(), &services.ReportFilter{
		ReportType: q.Get("type"),
		ItemStatus: q.Get("status"),
		Category:   q.Get("category"),
		Limit:      limit,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toReportViews(reports))
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		ErrorResponse(w, http.StatusBadRequest, "invalid_id")
		return
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toReportView(report))
}

// Categories handles GET /api/categories.
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.reports.Categories(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toCategoryViews(categories))
}
