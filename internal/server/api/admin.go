package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/internal/server/storage"
	"github.com/rodr499/kardo/pkg/models"
)

type AdminHandler struct {
	cardService *services.CardService
	settings    *storage.SettingsRepository
	supabase    *services.SupabaseService
}

func NewAdminHandler(cardService *services.CardService, settings *storage.SettingsRepository, supabase *services.SupabaseService) *AdminHandler {
	return &AdminHandler{
		cardService: cardService,
		settings:    settings,
		supabase:    supabase,
	}
}

// requirePassword re-authenticates the caller before a destructive action.
// Assigning an NFC tag needs no password; unassigning, unclaiming and
// deleting do.
func (h *AdminHandler) requirePassword(w http.ResponseWriter, r *http.Request, password string) bool {
	claims := GetUserClaims(r)
	if claims == nil {
		respondErrorJSON(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if password == "" {
		respondErrorJSON(w, http.StatusBadRequest, "password confirmation required")
		return false
	}
	if h.supabase == nil {
		respondErrorJSON(w, http.StatusServiceUnavailable, "auth provider not configured")
		return false
	}
	if err := h.supabase.VerifyPassword(claims.Email, password); err != nil {
		respondErrorJSON(w, http.StatusUnauthorized, "incorrect password")
		return false
	}
	return true
}

// GenerateCards handles POST /api/admin/cards/generate. Out-of-range
// parameters are clamped; the response carries the effective values.
func (h *AdminHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCardsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.CodeLength == 0 {
		req.CodeLength = 8
	}

	codes, length, err := h.cardService.GenerateCards(r.Context(), req.Count, req.CodeLength)
	if err != nil {
		if errors.Is(err, services.ErrExhaustedAttempts) {
			respondErrorJSON(w, http.StatusConflict, err.Error())
			return
		}
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.GenerateCardsResponse{
		Success:    true,
		Count:      len(codes),
		CodeLength: length,
		Codes:      codes,
	})
}

// ListCards handles GET /api/admin/cards.
func (h *AdminHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cardService.ListCards(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	respondJSON(w, http.StatusOK, models.ListCardsResponse{Cards: cards})
}

// UnclaimCard handles POST /api/admin/cards/{code}/unclaim. Requires the
// re-auth password.
func (h *AdminHandler) UnclaimCard(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmedActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.requirePassword(w, r, req.Password) {
		return
	}

	if err := h.cardService.UnclaimCard(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.respondCardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DisableCard handles POST /api/admin/cards/{code}/disable. Disabling is
// not password-gated; there is no admin path back to active.
func (h *AdminHandler) DisableCard(w http.ResponseWriter, r *http.Request) {
	if err := h.cardService.DisableCard(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.respondCardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteCard handles DELETE /api/admin/cards/{code}. Requires the re-auth
// password.
func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmedActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.requirePassword(w, r, req.Password) {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.respondCardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SetNfcTag handles PATCH /api/admin/cards/{code}/nfc. Only unassigning
// requires the password.
func (h *AdminHandler) SetNfcTag(w http.ResponseWriter, r *http.Request) {
	var req models.SetNfcTagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Assigned && !h.requirePassword(w, r, req.Password) {
		return
	}

	if err := h.cardService.SetNfcTag(r.Context(), chi.URLParam(r, "code"), req.Assigned); err != nil {
		h.respondCardError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetSettings handles GET /api/admin/settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/admin/settings.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.SetRegistrationEnabled(r.Context(), req.RegistrationEnabled); err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondErrorJSON(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *AdminHandler) respondCardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCode):
		respondErrorJSON(w, http.StatusBadRequest, "invalid card code")
	case errors.Is(err, services.ErrCardNotFound):
		respondErrorJSON(w, http.StatusNotFound, "card not found")
	default:
		respondErrorJSON(w, http.StatusInternalServerError, err.Error())
	}
}
