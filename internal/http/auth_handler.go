package http

import (
	"net/http"
	"time"

	"github.com/example/training-scheduler/internal/application"
)

// AuthHandler serves admin login and logout.
type AuthHandler struct {
	auth *application.AuthService
}

// NewAuthHandler wires the auth service.
func NewAuthHandler(auth *application.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	ExpiresAt   string `json:"expires_at"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) || !validateRequest(w, req) {
		return
	}

	result, err := h.auth.Authenticate(r.Context(), application.AuthenticateParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:       result.Token,
		DisplayName: result.Principal.DisplayName,
		ExpiresAt:   result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.RevokeSession(r.Context(), bearerToken(r)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
