package api

import (
	"net/http"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/internal/server/storage"
	"github.com/rodr499/kardo/pkg/models"
	"github.com/rodr499/kardo/pkg/utils"
)

// AuthHandler proxies sign-up and login to Supabase. Password storage,
// sessions and confirmation emails are all handled on the Supabase side.
type AuthHandler struct {
	supabase *services.SupabaseService
	settings *storage.SettingsRepository
}

func NewAuthHandler(supabase *services.SupabaseService, settings *storage.SettingsRepository) *AuthHandler {
	return &AuthHandler{
		supabase: supabase,
		settings: settings,
	}
}

// Signup handles POST /api/auth/signup. Rejected while the admin
// registration toggle is off.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !utils.IsValidEmail(req.Email) {
		respondErrorJSON(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(req.Password) < 8 {
		respondErrorJSON(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to check registration settings")
		return
	}
	if !settings.RegistrationEnabled {
		respondErrorJSON(w, http.StatusForbidden, services.ErrRegistrationDisabled.Error())
		return
	}

	if h.supabase == nil {
		respondErrorJSON(w, http.StatusServiceUnavailable, "auth provider not configured")
		return
	}
	if err := h.supabase.SignUp(req.Email, req.Password); err != nil {
		respondErrorJSON(w, http.StatusBadGateway, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.SignupResponse{
		Message: "check your email to confirm your account",
	})
}

// Login handles POST /api/auth/login via the Supabase password grant.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.supabase == nil {
		respondErrorJSON(w, http.StatusServiceUnavailable, "auth provider not configured")
		return
	}

	accessToken, refreshToken, expiresIn, err := h.supabase.SignIn(req.Email, req.Password)
	if err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}
