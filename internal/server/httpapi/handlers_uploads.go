package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// UploadHandler issues presigned upload URLs for report photos and claim
// evidence.
type UploadHandler struct {
	uploads  *services.UploadService
	resolver *ActorResolver
	log      logging.Logger
}

func NewUploadHandler(uploads *services.UploadService, resolver *ActorResolver, log logging.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, resolver: resolver, log: log}
}

// Presign handles GET /api/uploads/presign. Any authenticated caller may
// upload; the URL expires after 15 minutes.
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	_, claimantErr := h.resolver.ClaimantID(r)
	_, adminErr := h.resolver.Admin(r)
	if claimantErr != nil && adminErr != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	key, url, err := h.uploads.GetPresignedPutUrl(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "presign failed", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal")
		return
	}

	OKResponse(w, http.StatusOK, map[string]string{"key": key, "uploadUrl": url})
}
