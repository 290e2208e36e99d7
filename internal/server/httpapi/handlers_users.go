package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

// UserHandler serves account registration, login and profile endpoints.
type UserHandler struct {
	users    *services.UserService
	resolver *ActorResolver
	log      logging.Logger
}

func NewUserHandler(users *services.UserService, resolver *ActorResolver, log logging.Logger) *UserHandler {
	return &UserHandler{users: users, resolver: resolver, log: log}
}

type registerRequest struct {
	FullName    string `json:"fullName"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	user, err := h.users.Register(r.Context(), &services.RegisterInput{
		FullName:    req.FullName,
		UserName:    req.UserName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	h.log.Info(r.Context(), "user registered", "user_id", user.ID)
	OKResponse(w, http.StatusCreated, toUserView(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         *userView `json:"user"`
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	pair, user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}

	OKResponse(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         toUserView(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/users/refresh.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := ParseJSONBody(r, &req); err != nil || req.RefreshToken == "" {
		ErrorResponse(w, http.StatusBadRequest, "missing_token")
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		serviceError(w, err)
		return
	}

	OKResponse(w, http.StatusOK, map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// GetProfile handles GET /api/profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.ClaimantID(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toUserView(user))
}

type updateProfileRequest struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// UpdateProfile handles PUT /api/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolver.ClaimantID(r)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "not_authenticated")
		return
	}

	var req updateProfileRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.ProfileImageURL = req.ProfileImageURL

	if err := h.users.UpdateProfile(r.Context(), user); err != nil {
		serviceError(w, err)
		return
	}
	OKResponse(w, http.StatusOK, toUserView(user))
}
