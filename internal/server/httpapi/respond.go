package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/common"
)

// errorBody is the uniform failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// successBody wraps a payload in the uniform success envelope.
type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// JSONResponse writes a JSON response.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// OKResponse writes a success envelope around data.
func OKResponse(w http.ResponseWriter, statusCode int, data any) {
	JSONResponse(w, statusCode, successBody{Success: true, Data: data})
}

// ErrorResponse writes a failure envelope with a stable error code.
func ErrorResponse(w http.ResponseWriter, statusCode int, code string) {
	JSONResponse(w, statusCode, errorBody{Success: false, Error: code})
}

// ParseJSONBody parses the request body into v.
func ParseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// serviceError maps service-layer sentinel errors onto HTTP statuses and
// stable error codes. Unknown errors collapse to a generic internal failure
// so storage details never leak to callers.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		ErrorResponse(w, http.StatusNotFound, "not_found")
	case errors.Is(err, common.ErrReportNotFound):
		ErrorResponse(w, http.StatusNotFound, "report_not_found")
	case errors.Is(err, common.ErrorUnauthorized):
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
	case errors.Is(err, common.ErrorNotAdmin):
		ErrorResponse(w, http.StatusUnauthorized, "not_admin")
	case errors.Is(err, common.ErrorInvalidPayload):
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
	case errors.Is(err, common.ErrorAlreadyExists):
		ErrorResponse(w, http.StatusConflict, "already_exists")
	case errors.Is(err, common.ErrAlreadyClaimed):
		ErrorResponse(w, http.StatusConflict, "already_claimed")
	case errors.Is(err, common.ErrClaimCommitted):
		ErrorResponse(w, http.StatusConflict, "claim_committed")
	case errors.Is(err, common.ErrRateLimited):
		ErrorResponse(w, http.StatusTooManyRequests, "rate_limited")
	case errors.Is(err, common.ErrNoChallenge):
		ErrorResponse(w, http.StatusBadRequest, "no_challenge")
	case errors.Is(err, common.ErrInvalidCode):
		ErrorResponse(w, http.StatusBadRequest, "invalid_code")
	case errors.Is(err, common.ErrNoAcceptRecord):
		ErrorResponse(w, http.StatusBadRequest, "no_accept_record")
	case errors.Is(err, common.ErrInvalidToken):
		ErrorResponse(w, http.StatusForbidden, "invalid_token")
	case errors.Is(err, common.ErrNotVerified):
		ErrorResponse(w, http.StatusBadRequest, "not_verified")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		ErrorResponse(w, http.StatusUnauthorized, "token_expired")
	default:
		ErrorResponse(w, http.StatusInternalServerError, "internal")
	}
}
